// Package models defines client-side data models used by the portal client.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UserID is the server-side user identifier. The auth service has used both
// numeric and string identifiers, so either JSON form is accepted.
type UserID string

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and anything else as a string.
func (id UserID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UserInfo is the profile snapshot cached next to the session token.
// It is always replaced as a whole.
type UserInfo struct {
	ID          UserID   `json:"id"`
	Username    string   `json:"username"`
	Nickname    string   `json:"nickname,omitempty"`
	Email       string   `json:"email"`
	Avatar      string   `json:"avatar,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// DisplayName picks the friendliest non-empty name.
func (u *UserInfo) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Nickname != "":
		return u.Nickname
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// IPLocation is the cached geolocation of the client's public address.
type IPLocation struct {
	IP          string `json:"ip"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city,omitempty"`
}
