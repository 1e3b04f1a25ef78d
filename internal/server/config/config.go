// Package config handles configuration for the auth server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the portal auth server.
//
// Fields:
//   - ListenAddr: HTTP bind address.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps users in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidityDuration: session token lifetime.
//   - PrivateKeyPath: PEM file with the RSA key that decrypts login passwords.
//   - Environment: "development" or "production".
//   - CaptchaTTL: how long a mailed code stays valid.
//   - CaptchaInterval: minimum gap between two codes for one address.
//   - GoogleClientID / GoogleClientSecret / GoogleRedirectURL: Google OAuth app.
//   - OAuthClients: client ids that may obtain /oauth2/authorize codes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ListenAddr            string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	PrivateKeyPath        string
	Environment           string
	CaptchaTTL            time.Duration
	CaptchaInterval       time.Duration
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRedirectURL     string
	OAuthClients          []string
	LogLevel              string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 30 * 24 * time.Hour
	c.PrivateKeyPath = "portal-authd.pem"
	c.Environment = EnvDevelopment
	c.CaptchaTTL = 10 * time.Minute
	c.CaptchaInterval = time.Minute
	c.GoogleRedirectURL = "http://localhost:3000/oauth/callback/google"
	c.OAuthClients = []string{"portal-a", "portal-b"}
	c.LogLevel = "info"
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// AllowsClient reports whether clientID may request authorization codes.
func (c *Config) AllowsClient(clientID string) bool {
	for _, id := range c.OAuthClients {
		if id == clientID {
			return true
		}
	}
	return false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
