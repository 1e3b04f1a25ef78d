package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/flagx"
	"github.com/dmitrijs2005/portalauth/internal/timex"
)

// JsonConfig is the on-disk form of Config. Pointer fields leave absent keys
// untouched; durations accept "1s" as well as integer nanoseconds.
type JsonConfig struct {
	ListenAddr            *string         `json:"listen_addr"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	PrivateKeyPath        *string         `json:"private_key_path"`
	Environment           *string         `json:"environment"`
	CaptchaTTL            *timex.Duration `json:"captcha_ttl"`
	CaptchaInterval       *timex.Duration `json:"captcha_interval"`
	GoogleClientID        *string         `json:"google_client_id"`
	GoogleClientSecret    *string         `json:"google_client_secret"`
	GoogleRedirectURL     *string         `json:"google_redirect_url"`
	OAuthClients          []string        `json:"oauth_clients"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config into config. Without either flag nothing is loaded. If the file
// cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PrivateKeyPath, c.PrivateKeyPath)
	setString(&config.Environment, c.Environment)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	setString(&config.LogLevel, c.LogLevel)

	setDuration(&config.TokenValidityDuration, c.TokenValidityDuration)
	setDuration(&config.CaptchaTTL, c.CaptchaTTL)
	setDuration(&config.CaptchaInterval, c.CaptchaInterval)

	if c.OAuthClients != nil {
		config.OAuthClients = c.OAuthClients
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
