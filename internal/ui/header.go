package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/five82/nutmunch/internal/pricing"
)

// renderHeader renders the top bar: logo, view tabs, connection state and
// the cart badge.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bar := newBarPaint(m.theme.Surface)

	left := []string{styles.Logo.Render("nutmunch")}
	for _, v := range viewCycle {
		label := viewTitle(v)
		active := v == m.currentView || (m.currentView == ViewDetail && v == m.previousView)
		if active {
			left = append(left, bar.Text(label, styles.AccentText.Bold(true)))
		} else {
			left = append(left, bar.Text(label, styles.MutedText))
		}
	}

	var right []string
	switch {
	case m.snapshot.IsOffline():
		right = append(right, bar.Text("offline", styles.DangerText))
	case m.snapshot.LastError != nil:
		right = append(right, bar.Text("retrying", styles.WarningText))
	case !m.snapshot.HasCatalog:
		right = append(right, bar.Text("connecting", styles.MutedText))
	}
	right = append(right, bar.Text(m.cartBadge(), styles.Text.Bold(true)))

	leftStr := bar.Join(left, 2)
	rightStr := bar.Join(right, 2)
	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
	}
	line := bar.Gap(1) + leftStr + bar.Gap(gap) + rightStr + bar.Gap(1)
	return bar.Line(line, m.width)
}

func (m Model) cartBadge() string {
	if m.cart == nil {
		return "cart 0"
	}
	s := m.cart.State()
	return fmt.Sprintf("cart %d · %s", s.TotalQuantity(), pricing.FormatMoney(s.Subtotal()))
}

func viewTitle(v View) string {
	switch v {
	case ViewShop:
		return "Shop"
	case ViewDetail:
		return "Product"
	case ViewCart:
		return "Cart"
	case ViewWishlist:
		return "Wishlist"
	case ViewCheckout:
		return "Checkout"
	case ViewDiagnostics:
		return "Log"
	default:
		return ""
	}
}

// renderCommandBar lists the keys that matter in the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bar := newBarPaint(m.theme.Background)

	var cmds [][2]string
	switch m.currentView {
	case ViewShop:
		if m.shop.searching {
			cmds = [][2]string{{"enter", "Search"}, {"esc", "Cancel"}}
		} else {
			cmds = [][2]string{{"a", "Add"}, {"enter", "Details"}, {"w", "Wishlist"}, {"f", "Category"}, {"r", "Sort"}, {"/", "Search"}}
		}
	case ViewDetail:
		cmds = [][2]string{{"+/-", "Quantity"}, {"a", "Add"}, {"w", "Wishlist"}, {"esc", "Back"}}
	case ViewCart:
		cmds = [][2]string{{"+/-", "Quantity"}, {"D", "Remove"}, {"R", "Reload"}, {"o", "Checkout"}}
	case ViewWishlist:
		cmds = [][2]string{{"a", "Add"}, {"enter", "Details"}, {"w", "Remove"}}
	case ViewCheckout:
		if m.checkout.order != nil {
			cmds = [][2]string{{"s", "Keep shopping"}}
		} else {
			cmds = [][2]string{{"tab", "Next field"}, {"enter", "Place order"}, {"esc", "Back"}}
		}
	case ViewDiagnostics:
		cmds = [][2]string{{"j/k", "Scroll"}, {"R", "Reload"}}
	}
	cmds = append(cmds, [2]string{"T", "Theme"}, [2]string{"?", "Help"}, [2]string{"e", "Quit"})

	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		parts = append(parts, bar.Text(c[0], styles.WarningText)+bar.Gap(1)+bar.Text(c[1], styles.MutedText))
	}
	return bar.Line(bar.Gap(1)+bar.Join(parts, 2), m.width)
}

// renderToast renders the notice line, empty when there is nothing to show.
func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	styles := m.theme.Styles()
	style := styles.SuccessText
	if m.toast.failed {
		style = styles.DangerText
	}
	return " " + style.Render(truncate(m.toast.message, m.width-2))
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// pad left-aligns s in a column of width cells.
func pad(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// padLeft right-aligns s in a column of width cells.
func padLeft(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

func formatPrice(price float64) string {
	return pricing.FormatMoney(decimal.NewFromFloat(price))
}
