package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/storefront"
)

type wishlistMsg struct {
	items   []storefront.Product
	message string
	err     error
}

// toggleWishlistCmd adds or removes p, then re-reads the wishlist so the
// store reflects what the server holds.
func (m Model) toggleWishlistCmd(p storefront.Product) tea.Cmd {
	client, ctx, handle := m.client, m.ctx, m.session
	saved := m.snapshot.InWishlist(p.ID)
	return func() tea.Msg {
		var (
			err     error
			message string
		)
		if saved {
			err = client.RemoveFromWishlist(ctx, handle, p.ID)
			message = fmt.Sprintf("Removed %s from wishlist", p.Name)
		} else {
			err = client.AddToWishlist(ctx, handle, p.ID)
			message = fmt.Sprintf("Saved %s to wishlist", p.Name)
		}
		if err != nil {
			return wishlistMsg{err: fmt.Errorf("update wishlist for %s: %w", p.Name, err)}
		}
		items, err := client.FetchWishlist(ctx, handle)
		if err != nil {
			return wishlistMsg{err: fmt.Errorf("fetch wishlist: %w", err)}
		}
		return wishlistMsg{items: items, message: message}
	}
}

func (m Model) handleWishlistResult(msg wishlistMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("wishlist update failed", zap.Error(msg.err))
		m.showError("Could not update wishlist")
		return m, nil
	}
	if m.store != nil {
		m.store.SetWishlist(msg.items)
	}
	m.snapshot.Wishlist = msg.items
	m.wishlist.clamp(len(msg.items))
	m.showInfo(msg.message)
	return m, nil
}

func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Wishlist
	if m.wishlist.move(m.keys, msg, len(items)) {
		return m, nil
	}
	if m.wishlist.selected < 0 || m.wishlist.selected >= len(items) {
		return m, nil
	}
	p := items[m.wishlist.selected]
	switch {
	case key.Matches(msg, m.keys.AddToCart):
		return m, m.addCmd(p, 1)
	case key.Matches(msg, m.keys.ToggleWishlist), key.Matches(msg, m.keys.Remove):
		return m, m.toggleWishlistCmd(p)
	case key.Matches(msg, m.keys.Open):
		return m.openDetail(p), nil
	}
	return m, nil
}

// renderWishlist renders saved products.
func (m Model) renderWishlist() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString("\n")

	items := m.snapshot.Wishlist
	if len(items) == 0 {
		b.WriteString(styles.MutedText.Render(" Nothing saved yet. Press w on a product to keep it here."))
		b.WriteString("\n")
		return b.String()
	}

	nameWidth := m.width - 30
	if nameWidth < 16 {
		nameWidth = 16
	}
	for i, p := range items {
		row := "  " + pad(p.Name, nameWidth) + " " + pad(p.Category, 12) + " " + padLeft(formatPrice(p.Price), 9)
		if i == m.wishlist.selected {
			b.WriteString(styles.Selected.Render(pad(row, m.width)))
		} else {
			b.WriteString(styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}
