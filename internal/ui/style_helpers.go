package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barPaint renders segments of a single-line bar on a solid background.
// Lipgloss resets the background between separately rendered segments, so
// every gap between them is painted explicitly.
type barPaint struct {
	bg lipgloss.Color
}

func newBarPaint(color string) barPaint {
	return barPaint{bg: lipgloss.Color(color)}
}

// Text renders text word by word so the spaces inside it keep the background.
func (p barPaint) Text(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	words := strings.Split(text, " ")
	styled := style.Background(p.bg)
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, p.Gap(1))
}

// Gap returns n background-colored spaces.
func (p barPaint) Gap(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(p.bg).Render(strings.Repeat(" ", n))
}

// Join joins rendered segments with a gap of width spaces.
func (p barPaint) Join(segments []string, width int) string {
	return strings.Join(segments, p.Gap(width))
}

// Line pads content to width.
func (p barPaint) Line(content string, width int) string {
	return lipgloss.NewStyle().Background(p.bg).Width(width).Render(content)
}
