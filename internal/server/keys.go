package server

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/cryptox"
	"github.com/dmitrijs2005/portalauth/internal/filex"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/dmitrijs2005/portalauth/internal/server/config"
)

const generatedKeyBits = 2048

// PublicKeyPath is where the public half of a generated key is written,
// e.g. portal-authd.pem -> portal-authd.pub.pem.
func PublicKeyPath(privatePath string) string {
	return strings.TrimSuffix(privatePath, ".pem") + ".pub.pem"
}

// LoadOrCreateKey reads the RSA key used to decrypt login passwords.
// Outside production a missing key file is generated together with its
// public half; in production a missing or broken key is an error.
func LoadOrCreateKey(ctx context.Context, c *config.Config, logger logging.Logger) (*rsa.PrivateKey, error) {
	if c.PrivateKeyPath == "" {
		if c.IsProduction() {
			return nil, fmt.Errorf("%w: no private key configured", cryptox.ErrEncryptionUnavailable)
		}
		logger.Warn(ctx, "no private key configured, passwords are accepted in PLAINTEXT (development only)")
		return nil, nil
	}

	exists, err := filex.Exists(c.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	if exists {
		data, err := cryptox.ReadKeyFile(c.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		key, err := cryptox.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse private key %s: %w", c.PrivateKeyPath, err)
		}
		return key, nil
	}

	if c.IsProduction() {
		return nil, fmt.Errorf("%w: private key %s not found", cryptox.ErrEncryptionUnavailable, c.PrivateKeyPath)
	}

	key, err := generateKeyFiles(c.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "generated password key pair", "private", c.PrivateKeyPath, "public", PublicKeyPath(c.PrivateKeyPath))
	return key, nil
}

func generateKeyFiles(path string) (*rsa.PrivateKey, error) {
	key, err := cryptox.GenerateKeyPair(generatedKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	priv, err := cryptox.MarshalPrivateKeyPEM(key)
	if err != nil {
		return nil, err
	}
	pub, err := cryptox.MarshalPublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	if err := filex.WriteNew(path, priv, 0o600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}
	if err := filex.WriteNew(PublicKeyPath(path), pub, 0o644); err != nil {
		return nil, fmt.Errorf("write public key: %w", err)
	}
	return key, nil
}
