package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means no file
		want    Prefs
	}{
		{
			name: "missing file",
			want: Prefs{Theme: defaultTheme},
		},
		{
			name:    "theme only",
			content: "theme = \"Orchard\"\n",
			want:    Prefs{Theme: "Orchard"},
		},
		{
			name:    "blank theme",
			content: "theme = \"  \"\n",
			want:    Prefs{Theme: defaultTheme},
		},
		{
			name:    "invalid toml",
			content: "not valid toml {{{\n",
			want:    Prefs{Theme: defaultTheme},
		},
		{
			name:    "unknown sort dropped",
			content: "theme = \"Orchard\"\nsort = \"random\"\ncategory = \"Raw\"\n",
			want:    Prefs{Theme: "Orchard", Category: "Raw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Load = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "nutmunch", "prefs.toml"), "theme = \"Nightfox\"\n")

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Nightfox" {
		t.Fatalf("Theme = %q, want Nightfox", p.Theme)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Orchard", Category: " Roasted ", Sort: "price_desc"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Prefs{Theme: "Orchard", Category: "Roasted", Sort: "price_desc"}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	for _, theme := range []string{"Nightfox", "Kernel"} {
		if err := Save(path, Prefs{Theme: theme}); err != nil {
			t.Fatalf("Save(%s): %v", theme, err)
		}
	}
	got, _ := Load(path)
	if got.Theme != "Kernel" {
		t.Fatalf("Theme = %q, want Kernel", got.Theme)
	}
}
