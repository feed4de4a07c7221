package ui

import "testing"

func TestThemeByNameFallsBack(t *testing.T) {
	if got := ThemeByName("Dracula"); got.Name != "Dracula" {
		t.Fatalf("ThemeByName(Dracula) = %q", got.Name)
	}
	if got := ThemeByName("nonsense"); got.Name != Themes[0].Name {
		t.Fatalf("unknown theme should fall back to %q, got %q", Themes[0].Name, got.Name)
	}
}

func TestNextThemeCycles(t *testing.T) {
	name := Themes[0].Name
	seen := map[string]bool{}
	for range Themes {
		next := NextTheme(name)
		if seen[next.Name] {
			t.Fatalf("theme %q repeated before completing the cycle", next.Name)
		}
		seen[next.Name] = true
		name = next.Name
	}
	if !seen[Themes[0].Name] {
		t.Fatal("cycle never returned to the first theme")
	}
}
