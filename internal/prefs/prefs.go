// Package prefs remembers the shopper's theme and catalog filter between
// runs, in ~/.config/nutmunch/prefs.toml by default.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/nutmunch/internal/storefront"
)

// Prefs holds the theme and the last catalog filter.
type Prefs struct {
	Theme    string `toml:"theme"`
	Category string `toml:"category,omitempty"`
	Sort     string `toml:"sort,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/nutmunch/prefs.toml"
	defaultTheme     = "Kernel"
)

// Default returns the preferences used when no file exists.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path, or the default path when empty.
// Preferences are cosmetic: a missing, unreadable or malformed file yields
// the defaults rather than an error.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default(), nil
	}

	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.normalize(), nil
}

// Save writes p to path, creating the directory as needed. The file is
// replaced by rename so a crash never leaves half a file behind.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.Category = strings.TrimSpace(p.Category)
	switch p.Sort = strings.TrimSpace(p.Sort); p.Sort {
	case storefront.SortFeatured, storefront.SortPriceAsc, storefront.SortPriceDesc, storefront.SortName:
	default:
		p.Sort = storefront.SortFeatured
	}
	return p
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if home == "" {
			return "", errors.New("home dir is empty")
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
