// Package theme keeps the light/dark preference of a client.  The choice is
// persisted under the "theme" storage key; when nothing is persisted the
// client's own colour-scheme preference decides.
package theme

import (
	"context"
	"strings"

	"github.com/iliyamo/adsaga-console/internal/storage"
)

const (
	Dark  = "dark"
	Light = "light"
)

// PreferenceHeader is the client hint carrying the user agent's
// prefers-color-scheme value.
const PreferenceHeader = "Sec-CH-Prefers-Color-Scheme"

// Store reads and writes the theme of one client.
type Store struct {
	local     *storage.Local
	preferred string
}

// New binds a theme store to local.  preferred is the raw client hint value
// and only matters while no theme is persisted.
func New(local *storage.Local, preferred string) *Store {
	return &Store{local: local, preferred: strings.Trim(strings.TrimSpace(preferred), `"`)}
}

// IsDarkMode reports the effective theme.  Storage errors fall back to the
// client preference.
func (s *Store) IsDarkMode(ctx context.Context) bool {
	v, err := s.local.GetItem(ctx, storage.KeyTheme)
	if err == nil {
		switch v {
		case Dark:
			return true
		case Light:
			return false
		}
	}
	return strings.EqualFold(s.preferred, Dark)
}

// Set persists the theme and returns the new dark-mode flag.
func (s *Store) Set(ctx context.Context, dark bool) (bool, error) {
	v := Light
	if dark {
		v = Dark
	}
	if err := s.local.SetItem(ctx, storage.KeyTheme, v); err != nil {
		return s.IsDarkMode(ctx), err
	}
	return dark, nil
}

// Toggle flips and persists the theme.
func (s *Store) Toggle(ctx context.Context) (bool, error) {
	return s.Set(ctx, !s.IsDarkMode(ctx))
}

// RootClass is the class the document root carries for dark.
func RootClass(dark bool) string {
	if dark {
		return Dark
	}
	return ""
}
