// Package cli provides the interactive portal command-line client.
//
// It wires configuration, the shared client database, the auth API and the
// session package into a small REPL that stands in for the portal's sign-in
// dialog. Typical flow: restore the stored session on start, then run user
// commands until exit.
//
// Key features:
//   - Sign in, sign up and password reset with mail captcha
//   - Google sign-in via the authorize URL and the pasted callback URL
//   - Authorization codes for sibling portal clients
//   - Language and theme preferences
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
