package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"auth_base_url":             "https://auth.example.com",
		"client_id":                 "portal-b",
		"origin":                    "app.example.com",
		"database_path":             "/tmp/p.db",
		"public_key_path":           "/etc/portal/pub.pem",
		"environment":               "production",
		"allow_plaintext_passwords": true,
		"request_timeout":           "7s",
		"log_level":                 "debug",
	})
	partial := writeTempJSON(t, dir, "partial.json", map[string]any{
		"request_timeout": 2000000000,
	})

	t.Run("loads every field from -config", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, Config{
			AuthBaseURL:             "https://auth.example.com",
			ClientID:                "portal-b",
			Origin:                  "app.example.com",
			DatabasePath:            "/tmp/p.db",
			PublicKeyPath:           "/etc/portal/pub.pem",
			Environment:             "production",
			AllowPlaintextPasswords: true,
			RequestTimeout:          7 * time.Second,
			LogLevel:                "debug",
		}, *cfg)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "portal-a", cfg.ClientID)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ClientID: "keep"}
		parseJson(cfg)
		assert.Equal(t, "keep", cfg.ClientID)
	})
}

func Test_parseJson_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))

	badDuration := writeTempJSON(t, dir, "dur.json", map[string]any{"request_timeout": true})

	for name, args := range map[string][]string{
		"missing file":     {"testbin", "-c", filepath.Join(dir, "nope.json")},
		"invalid json":     {"testbin", "-c", bad},
		"invalid duration": {"testbin", "-c", badDuration},
	} {
		t.Run(name, func(t *testing.T) {
			os.Args = args
			assert.Panics(t, func() { parseJson(&Config{}) })
		})
	}
}
