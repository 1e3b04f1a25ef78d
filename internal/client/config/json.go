package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/portalauth/internal/flagx"
	"github.com/dmitrijs2005/portalauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields distinguish "absent" from zero values, so a partial file
// only overrides what it mentions. Durations use timex.Duration ("10s" or
// integer nanoseconds).
type JsonConfig struct {
	AuthBaseURL             *string         `json:"auth_base_url"`
	ClientID                *string         `json:"client_id"`
	Origin                  *string         `json:"origin"`
	DatabasePath            *string         `json:"database_path"`
	PublicKeyPath           *string         `json:"public_key_path"`
	Environment             *string         `json:"environment"`
	AllowPlaintextPasswords *bool           `json:"allow_plaintext_passwords"`
	RequestTimeout          *timex.Duration `json:"request_timeout"`
	LogLevel                *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config. Without that flag it does nothing. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.AuthBaseURL, jc.AuthBaseURL)
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.Origin, jc.Origin)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.PublicKeyPath, jc.PublicKeyPath)
	setString(&cfg.Environment, jc.Environment)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.AllowPlaintextPasswords != nil {
		cfg.AllowPlaintextPasswords = *jc.AllowPlaintextPasswords
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
