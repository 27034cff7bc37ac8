package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCategoryStyle(t *testing.T) {
	th := GetTheme("Kernel")
	styles := th.Styles()

	if got := styles.CategoryStyle("Raw").GetBackground(); got != lipgloss.Color(th.CategoryColors["Raw"]) {
		t.Fatalf("CategoryStyle(Raw) background = %v, want %q", got, th.CategoryColors["Raw"])
	}
	if got := styles.CategoryStyle("Unlisted").GetBackground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("CategoryStyle(Unlisted) background = %v, want muted %q", got, th.Muted)
	}

	// Category colors survive a background override.
	bg := styles.WithBackground(th.Surface)
	if got := bg.CategoryStyle("Raw").GetBackground(); got != lipgloss.Color(th.CategoryColors["Raw"]) {
		t.Fatalf("WithBackground lost category colors: %v", got)
	}
	if got := bg.CategoryStyle("Unlisted").GetBackground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("WithBackground lost muted fallback: %v", got)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Kernel", "Nightfox", "Orchard"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Kernel":   "Nightfox",
		"Nightfox": "Orchard",
		"Orchard":  "Kernel",
		"Unknown":  "Kernel",
	}
	for current, want := range tests {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Kernel" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Kernel (fallback)", got)
	}
}

func TestThemesCoverCatalogCategories(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, category := range []string{"Roasted", "Raw", "Confection", "Reserve"} {
			if th.CategoryColors[category] == "" {
				t.Errorf("theme %s has no color for %s", name, category)
			}
		}
	}
}
