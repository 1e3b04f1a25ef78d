// Package prefs keeps the user's client-side preferences in the same-origin
// local store: interface language, theme and a cached IP geolocation.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/client/models"
	"github.com/dmitrijs2005/portalauth/internal/client/storage"
	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/dbx"
)

// IPLocationTTL bounds how long a cached geolocation is trusted.
const IPLocationTTL = 24 * time.Hour

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Prefs struct {
	local *storage.LocalRepository
}

func New(db dbx.DBTX, origin string) *Prefs {
	return &Prefs{local: storage.NewLocalRepository(db, origin)}
}

// Language returns the stored language code, or "" if none was chosen.
// It is read from storage on every call.
func (p *Prefs) Language(ctx context.Context) (string, error) {
	v, _, err := p.local.Get(ctx, common.KeyLanguage)
	if err != nil {
		return "", fmt.Errorf("read language: %w", err)
	}
	return v, nil
}

func (p *Prefs) SetLanguage(ctx context.Context, lang string) error {
	if err := p.local.Set(ctx, common.KeyLanguage, lang); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	return nil
}

// Theme returns the stored theme, defaulting to light.
func (p *Prefs) Theme(ctx context.Context) (string, error) {
	v, ok, err := p.local.Get(ctx, common.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("read theme: %w", err)
	}
	if !ok || v == "" {
		return ThemeLight, nil
	}
	return v, nil
}

func (p *Prefs) SetTheme(ctx context.Context, theme string) error {
	switch theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := p.local.Set(ctx, common.KeyTheme, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// IPLocation returns the cached location, or nil when absent or older than
// IPLocationTTL.
func (p *Prefs) IPLocation(ctx context.Context) (*models.IPLocation, error) {
	raw, ok, err := p.local.Get(ctx, common.KeyIPLocation)
	if err != nil {
		return nil, fmt.Errorf("read ip location: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var loc models.IPLocation
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, nil
	}
	return &loc, nil
}

func (p *Prefs) SetIPLocation(ctx context.Context, loc models.IPLocation) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	if err := p.local.SetWithTTL(ctx, common.KeyIPLocation, string(b), IPLocationTTL); err != nil {
		return fmt.Errorf("save ip location: %w", err)
	}
	return nil
}
