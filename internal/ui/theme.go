package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Colors are hex strings.
type Theme struct {
	Name string

	Background string // terminal fill and command bar
	Surface    string // header bar

	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// CategoryColors maps a catalog category to its badge color.
	CategoryColors map[string]string
}

// Styles contains the lipgloss styles built from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Logo     lipgloss.Style
	Selected lipgloss.Style

	categoryColors map[string]string
	badgeText      string
	badgeFallback  string
}

// Styles builds the theme's styles with a transparent background.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Logo: fg(t.Warning).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		categoryColors: t.CategoryColors,
		badgeText:      t.Background,
		badgeFallback:  t.Muted,
	}
}

// CategoryStyle returns the badge style for a catalog category. Unknown
// categories use the muted color.
func (s Styles) CategoryStyle(category string) lipgloss.Style {
	color, ok := s.categoryColors[category]
	if !ok || color == "" {
		color = s.badgeFallback
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.badgeText)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy whose text styles paint bgColor behind
// them. Badges and the selection keep their own colors.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

var themeOrder = []string{"Kernel", "Nightfox", "Orchard"}

var themes = map[string]Theme{
	"Kernel":   kernelTheme(),
	"Nightfox": nightfoxTheme(),
	"Orchard":  orchardTheme(),
}

// GetTheme returns the named theme, or Kernel when the name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return kernelTheme()
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// Roasted shell browns with a pistachio accent.
func kernelTheme() Theme {
	return Theme{
		Name:          "Kernel",
		Background:    "#1a1410",
		Surface:       "#241c16",
		SelectionBg:   "#5c4a3a",
		SelectionText: "#f5ebe0",
		Text:          "#f5ebe0",
		Muted:         "#c2ad98",
		Faint:         "#8a7563",
		Accent:        "#a3c585",
		Success:       "#93c572",
		Warning:       "#e9b872",
		Danger:        "#e07a5f",
		Info:          "#d4a373",
		CategoryColors: map[string]string{
			"Roasted":    "#c97c4a",
			"Raw":        "#93c572",
			"Confection": "#e9b872",
			"Reserve":    "#b08bbb",
		},
	}
}

// https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		CategoryColors: map[string]string{
			"Roasted":    "#f4a261",
			"Raw":        "#81b29a",
			"Confection": "#dbc074",
			"Reserve":    "#9d79d6",
		},
	}
}

// Light theme: blossom pink on almond paper.
func orchardTheme() Theme {
	return Theme{
		Name:          "Orchard",
		Background:    "#fbf6ee",
		Surface:       "#f1e6d6",
		SelectionBg:   "#e8c4c4",
		SelectionText: "#2e2418",
		Text:          "#2e2418",
		Muted:         "#6f5f4e",
		Faint:         "#a08f7c",
		Accent:        "#b5577b",
		Success:       "#4f7f3a",
		Warning:       "#a86a1a",
		Danger:        "#b3362f",
		Info:          "#3d6f8f",
		CategoryColors: map[string]string{
			"Roasted":    "#c0703a",
			"Raw":        "#6a9a4a",
			"Confection": "#d09a3a",
			"Reserve":    "#8a5fa8",
		},
	}
}
