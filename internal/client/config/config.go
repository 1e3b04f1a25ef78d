package config

import "time"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the portal client.
//
// Fields:
//   - AuthBaseURL: base URL of the auth service.
//   - ClientID: OAuth client id sent with every login.
//   - Origin: host name this client acts as; decides cookie scope.
//   - DatabasePath: SQLite file with the cookie jar and local storage.
//     Clients sharing it behave like tabs of one browser profile.
//   - PublicKeyPath: PEM file with the auth service's RSA public key.
//   - Environment: "development" or "production".
//   - AllowPlaintextPasswords: development-only escape hatch used when no
//     public key is available. Ignored in production.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	AuthBaseURL             string
	ClientID                string
	Origin                  string
	DatabasePath            string
	PublicKeyPath           string
	Environment             string
	AllowPlaintextPasswords bool
	RequestTimeout          time.Duration
	LogLevel                string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://127.0.0.1:8080"
	c.ClientID = "portal-a"
	c.Origin = "localhost"
	c.DatabasePath = "portal.db"
	c.PublicKeyPath = ""
	c.Environment = EnvDevelopment
	c.AllowPlaintextPasswords = false
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
