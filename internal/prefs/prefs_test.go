package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if len(p.Items) != 0 {
		t.Fatalf("Items = %#v, want empty", p.Items)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	want := Prefs{Theme: "Nord", Items: []string{"rev-1", "rev-2"}}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got := Load(path)
	if got.Theme != "Nord" {
		t.Fatalf("Theme = %q, want Nord", got.Theme)
	}
	if len(got.Items) != 2 || got.Items[0] != "rev-1" || got.Items[1] != "rev-2" {
		t.Fatalf("Items = %#v, want [rev-1 rev-2]", got.Items)
	}
}

func TestLoad_MalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = [broken"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want default after parse failure", p.Theme)
	}
}

func TestLoad_EmptyThemeUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = \"  \"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want default for blank theme", p.Theme)
	}
}
