package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/portalauth/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-s", "-t", "-k", "-env", "-captcha-ttl", "-captcha-interval",
	"-google-client-id", "-google-client-secret", "-google-redirect", "-clients", "-l",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                     HTTP bind address (e.g., ":8080")
//	-d string                     PostgreSQL DSN
//	-s string                     JWT HMAC secret key
//	-t duration                   token validity (e.g., 720h)
//	-k string                     RSA private key file
//	-env string                   development or production
//	-captcha-ttl duration         captcha validity
//	-captcha-interval duration    minimum gap between captchas per address
//	-google-client-id string      Google OAuth client id
//	-google-client-secret string  Google OAuth client secret
//	-google-redirect string       Google OAuth redirect URL
//	-clients string               comma-separated client ids allowed to authorize
//	-l string                     log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity duration")
	fs.StringVar(&config.PrivateKeyPath, "k", config.PrivateKeyPath, "RSA private key file")
	fs.StringVar(&config.Environment, "env", config.Environment, "environment: development or production")
	fs.DurationVar(&config.CaptchaTTL, "captcha-ttl", config.CaptchaTTL, "captcha validity")
	fs.DurationVar(&config.CaptchaInterval, "captcha-interval", config.CaptchaInterval, "minimum interval between captchas per email")
	fs.StringVar(&config.GoogleClientID, "google-client-id", config.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&config.GoogleClientSecret, "google-client-secret", config.GoogleClientSecret, "Google OAuth client secret")
	fs.StringVar(&config.GoogleRedirectURL, "google-redirect", config.GoogleRedirectURL, "Google OAuth redirect URL")
	clients := fs.String("clients", strings.Join(config.OAuthClients, ","), "client ids allowed to request authorization codes")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.OAuthClients = splitList(*clients)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
