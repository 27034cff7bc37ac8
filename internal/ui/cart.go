package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/cart"
	"github.com/five82/nutmunch/internal/pricing"
	"github.com/five82/nutmunch/internal/storefront"
)

const progressWidth = 30

// Mutations run off the event loop. Their failures reach the toast line as
// notices, so the returned error is not needed here.

func (m Model) addCmd(p storefront.Product, quantity int) tea.Cmd {
	c, ctx := m.cart, m.ctx
	return func() tea.Msg {
		_ = c.AddItem(ctx, p, quantity)
		return nil
	}
}

func (m Model) updateQuantityCmd(id storefront.ProductID, quantity int) tea.Cmd {
	c, ctx := m.cart, m.ctx
	return func() tea.Msg {
		_ = c.UpdateQuantity(ctx, id, quantity)
		return nil
	}
}

func (m Model) removeCmd(id storefront.ProductID) tea.Cmd {
	c, ctx := m.cart, m.ctx
	return func() tea.Msg {
		_ = c.RemoveItem(ctx, id)
		return nil
	}
}

func (m Model) reloadCartCmd() tea.Cmd {
	c, ctx, log := m.cart, m.ctx, m.log
	return func() tea.Msg {
		if err := c.Reload(ctx); err != nil {
			log.Warn("cart reload failed", zap.Error(err))
		}
		return nil
	}
}

func (m Model) selectedLine() (cart.Line, bool) {
	lines := m.cart.State().Lines
	if m.cartView.selected < 0 || m.cartView.selected >= len(lines) {
		return cart.Line{}, false
	}
	return lines[m.cartView.selected], true
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cartView.move(m.keys, msg, m.cart.State().LineCount()) {
		return m, nil
	}
	if key.Matches(msg, m.keys.Refresh) {
		return m, m.reloadCartCmd()
	}

	line, ok := m.selectedLine()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Increase):
		return m, m.updateQuantityCmd(line.ProductID, line.Quantity+1)
	case key.Matches(msg, m.keys.Decrease):
		// Below one the line would disappear; removal is its own key.
		if line.Quantity > 1 {
			return m, m.updateQuantityCmd(line.ProductID, line.Quantity-1)
		}
	case key.Matches(msg, m.keys.Remove):
		return m, m.removeCmd(line.ProductID)
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.snapshot.Product(line.ProductID); ok {
			return m.openDetail(p), nil
		}
	}
	return m, nil
}

// renderCart renders the cart lines and the order summary.
func (m Model) renderCart() string {
	styles := m.theme.Styles()
	s := m.cart.State()

	var b strings.Builder
	b.WriteString("\n")
	if s.Empty() {
		b.WriteString(styles.MutedText.Render(" Your cart is empty. Press s to browse the shop."))
		b.WriteString("\n")
		return b.String()
	}

	nameWidth := m.width - 40
	if nameWidth < 16 {
		nameWidth = 16
	}
	header := "  " + pad("ITEM", nameWidth) + " " + padLeft("QTY", 5) + " " + padLeft("EACH", 9) + " " + padLeft("TOTAL", 10)
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	for i, line := range s.Lines {
		name := line.Name
		if line.Weight != "" {
			name += " (" + line.Weight + ")"
		}
		row := "  " + pad(name, nameWidth) + " " + padLeft(fmt.Sprintf("%d", line.Quantity), 5) + " " +
			padLeft(pricing.FormatMoney(line.UnitPrice), 9) + " " + padLeft(pricing.FormatMoney(line.LineTotal()), 10)
		if i == m.cartView.selected {
			b.WriteString(styles.Selected.Render(pad(row, m.width)))
		} else {
			b.WriteString(styles.Text.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSummary(m.cart.Quote()))
	return b.String()
}

// renderSummary renders totals and the free-shipping progress bar.
func (m Model) renderSummary(q pricing.Quote) string {
	styles := m.theme.Styles()
	var b strings.Builder

	shipping := pricing.FormatMoney(q.Shipping)
	if q.Shipping.IsZero() {
		shipping = "free"
	}
	rows := [][2]string{
		{"Subtotal", pricing.FormatMoney(q.Subtotal)},
		{"Shipping", shipping},
		{"Est. tax", pricing.FormatMoney(q.Tax)},
	}
	for _, r := range rows {
		b.WriteString("  " + styles.MutedText.Render(pad(r[0], 12)) + styles.Text.Render(padLeft(r[1], 10)) + "\n")
	}
	b.WriteString("  " + styles.Text.Bold(true).Render(pad("Total", 12)+padLeft(pricing.FormatMoney(q.GrandTotal), 10)) + "\n\n")

	b.WriteString("  " + m.renderProgress(q.ProgressPct) + "\n")
	if q.Remaining.IsPositive() || q.Shipping.IsPositive() {
		b.WriteString("  " + styles.MutedText.Render(fmt.Sprintf("Spend %s more for free shipping", pricing.FormatMoney(decimal.Max(q.Remaining, decimal.NewFromFloat(0.01))))) + "\n")
	} else {
		b.WriteString("  " + styles.SuccessText.Render("Free shipping unlocked") + "\n")
	}
	return b.String()
}

// renderProgress draws a fixed-width bar for pct in [0, 100].
func (m Model) renderProgress(pct decimal.Decimal) string {
	styles := m.theme.Styles()
	filled := int(pct.Mul(decimal.NewFromInt(progressWidth)).Div(decimal.NewFromInt(100)).IntPart())
	filled = max(0, min(progressWidth, filled))
	bar := styles.AccentText.Render(strings.Repeat("█", filled)) +
		styles.FaintText.Render(strings.Repeat("░", progressWidth-filled))
	return bar + styles.MutedText.Render(fmt.Sprintf(" %s%%", pct.Round(0).String()))
}
