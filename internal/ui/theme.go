package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string
	Text       string
	Muted      string
	Accent     string
	Success    string
	Danger     string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Accent)),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Accent)),

		Owned: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Success)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
	}
}

// Styles holds the rendered Lipgloss styles for a theme.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Owned    lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
}

// Themes lists the available themes in cycle order.
var Themes = []Theme{
	{
		Name:       "Dracula",
		Background: "#282a36",
		Surface:    "#343746",
		Border:     "#44475a",
		Text:       "#f8f8f2",
		Muted:      "#6272a4",
		Accent:     "#bd93f9",
		Success:    "#50fa7b",
		Danger:     "#ff5555",
	},
	{
		Name:       "Nord",
		Background: "#2e3440",
		Surface:    "#3b4252",
		Border:     "#4c566a",
		Text:       "#eceff4",
		Muted:      "#616e88",
		Accent:     "#88c0d0",
		Success:    "#a3be8c",
		Danger:     "#bf616a",
	},
}

// ThemeByName returns the named theme, falling back to the first theme when
// the name is unknown.
func ThemeByName(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after the named one in cycle order.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
