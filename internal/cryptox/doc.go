// Package cryptox holds the cryptographic primitives of portalauth:
//
//   - password transport encryption with an RSA public key (client) and the
//     matching decryption with the private key (server);
//   - RSA key generation and PEM encoding/decoding;
//   - argon2id password hashing for the server's user store.
//
// Passwords never leave the client in plaintext. The only exception is the
// explicitly gated development fallback, see NewPasswordEncrypter.
package cryptox
