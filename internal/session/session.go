// Package session persists the opaque handle the storefront uses to scope a
// shopper's cart and wishlist.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Handle identifies a client install to the remote storefront.
type Handle string

// Valid reports whether the handle is usable on the wire.
func (h Handle) Valid() bool {
	s := strings.TrimSpace(string(h))
	return s != "" && !strings.ContainsAny(s, " \t\r\n;,")
}

func (h Handle) String() string { return string(h) }

// New returns a fresh random handle.
func New() Handle {
	return Handle(uuid.NewString())
}

// Load returns the handle stored at path, creating and persisting a new one
// when the file is missing or blank. The handle is never rotated once written.
func Load(path string) (Handle, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("session path is empty")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		h := Handle(strings.TrimSpace(string(data)))
		if h.Valid() {
			return h, nil
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			return "", fmt.Errorf("session file %s holds an invalid handle", path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read session: %w", err)
	}

	h := New()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(h.String()+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	return h, nil
}
