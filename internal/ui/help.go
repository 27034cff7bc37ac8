package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const helpWidth = 44

type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections groups the bindings shown in the help overlay. The labels
// come from the bindings themselves so the overlay cannot drift from them.
func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{"Views", []key.Binding{k.ViewShop, k.ViewCart, k.ViewWishlist, k.ViewCheckout, k.ViewDiagnostics, k.Tab, k.Escape}},
		{"Shop", []key.Binding{k.Open, k.AddToCart, k.ToggleWishlist, k.CycleCategory, k.CycleSort, k.Search}},
		{"Cart", []key.Binding{k.Increase, k.Decrease, k.Remove, k.Refresh}},
		{"General", []key.Binding{k.Dismiss, k.CycleTheme, k.Help, k.Quit}},
	}
}

// renderHelp renders the help overlay centered over the screen.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning)).Width(10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", helpWidth-14)))
	b.WriteString("\n")

	for _, section := range m.keys.helpSections() {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(helpWidth).
		Render(strings.TrimSuffix(b.String(), "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
