package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nutmunch/internal/storefront"
)

type detailState struct {
	product  storefront.Product
	quantity int
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.detail.product
	switch {
	case key.Matches(msg, m.keys.Increase):
		if p.StockQuantity <= 0 || m.detail.quantity < p.StockQuantity {
			m.detail.quantity++
		}
	case key.Matches(msg, m.keys.Decrease):
		if m.detail.quantity > 1 {
			m.detail.quantity--
		}
	case key.Matches(msg, m.keys.AddToCart), key.Matches(msg, m.keys.Open):
		return m, m.addCmd(p, m.detail.quantity)
	case key.Matches(msg, m.keys.ToggleWishlist):
		return m, m.toggleWishlistCmd(p)
	}
	return m, nil
}

// renderDetail renders the product page.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	p := m.detail.product
	// Prefer the latest catalog copy for stock and price.
	if fresh, ok := m.snapshot.Product(p.ID); ok {
		p = fresh
	}

	var b strings.Builder
	b.WriteString("\n ")
	b.WriteString(styles.Text.Bold(true).Render(p.Name))
	b.WriteString("  ")
	b.WriteString(styles.CategoryStyle(p.Category).Render(p.Category))
	if m.snapshot.InWishlist(p.ID) {
		b.WriteString("  ")
		b.WriteString(styles.DangerText.Render("♥ wishlisted"))
	}
	b.WriteString("\n\n")

	b.WriteString(" ")
	b.WriteString(styles.AccentText.Bold(true).Render(formatPrice(p.Price)))
	b.WriteString(styles.MutedText.Render(" / " + p.Weight))
	b.WriteString("\n\n")

	width := m.width - 4
	if width > 80 {
		width = 80
	}
	if p.Description != "" {
		desc := lipgloss.NewStyle().Width(width).Render(p.Description)
		for _, line := range strings.Split(desc, "\n") {
			b.WriteString(" " + styles.Text.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	details := [][2]string{
		{"Origin", p.Origin},
		{"Grade", p.Grade},
		{"Stock", stockLabel(p.StockQuantity)},
	}
	if p.SustainabilityInfo != "" {
		details = append(details, [2]string{"Sourcing", p.SustainabilityInfo})
	}
	for _, d := range details {
		if d[1] == "" {
			continue
		}
		b.WriteString(" " + styles.FaintText.Render(pad(d[0], 10)) + styles.Text.Render(d[1]) + "\n")
	}

	if facts, err := p.NutritionFacts(); err == nil && len(facts) > 0 {
		b.WriteString("\n " + styles.AccentText.Render("Nutrition") + "\n")
		keys := make([]string, 0, len(facts))
		for k := range facts {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			b.WriteString(" " + styles.FaintText.Render(pad(k, 14)) + styles.Text.Render(facts[k]) + "\n")
		}
	}

	b.WriteString("\n ")
	b.WriteString(styles.MutedText.Render("Quantity "))
	b.WriteString(styles.WarningText.Render(fmt.Sprintf("− %d +", m.detail.quantity)))
	if line, ok := m.cart.State().Find(p.ID); ok {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("   %d already in cart", line.Quantity)))
	}
	b.WriteString("\n")
	return b.String()
}

func stockLabel(n int) string {
	switch {
	case n <= 0:
		return "sold out"
	case n < 10:
		return fmt.Sprintf("only %d left", n)
	default:
		return fmt.Sprintf("%d in stock", n)
	}
}
