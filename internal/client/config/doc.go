// Package config loads runtime configuration for the portal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds. Every key is optional:
//
//	{
//	  "auth_base_url": "https://auth.example.com",
//	  "client_id": "portal-a",
//	  "origin": "app.example.com",
//	  "database_path": "portal.db",
//	  "public_key_path": "auth_pub.pem",
//	  "environment": "production",
//	  "allow_plaintext_passwords": false,
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
//
// The package does not read environment variables; use the JSON file or
// flags.
package config
