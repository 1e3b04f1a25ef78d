package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/portalauth/internal/flagx"
)

var knownFlags = []string{"-a", "-client", "-o", "-d", "-k", "-env", "-allow-plaintext", "-t", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          auth service base URL
//	-client string     OAuth client id
//	-o string          origin host name
//	-d string          client database path
//	-k string          RSA public key file
//	-env string        development or production
//	-allow-plaintext   allow plaintext passwords when no key is set (development only)
//	-t duration        request timeout, e.g. 10s
//	-l string          log level
//
// Unknown arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthBaseURL, "a", cfg.AuthBaseURL, "auth service base URL")
	fs.StringVar(&cfg.ClientID, "client", cfg.ClientID, "OAuth client id")
	fs.StringVar(&cfg.Origin, "o", cfg.Origin, "origin host name of this client")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "client database path")
	fs.StringVar(&cfg.PublicKeyPath, "k", cfg.PublicKeyPath, "RSA public key (PEM) of the auth service")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "environment: development or production")
	fs.BoolVar(&cfg.AllowPlaintextPasswords, "allow-plaintext", cfg.AllowPlaintextPasswords, "send plaintext passwords when no key is configured (development only)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "HTTP request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
