package ui

import (
	"time"

	"github.com/five82/nutmunch/internal/cart"
)

type toast struct {
	message string
	failed  bool
	expires time.Time
}

func (m *Model) showNotice(n cart.Notice, now time.Time) {
	m.toast = &toast{
		message: n.Message,
		failed:  n.Kind == cart.NoticeFailed,
		expires: now.Add(noticeTTL),
	}
}

// showError puts a local failure on the toast line.
func (m *Model) showError(msg string) {
	m.toast = &toast{message: msg, failed: true, expires: time.Now().Add(noticeTTL)}
}

// showInfo puts a local confirmation on the toast line.
func (m *Model) showInfo(msg string) {
	m.toast = &toast{message: msg, expires: time.Now().Add(noticeTTL)}
}
