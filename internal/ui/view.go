package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bvale/kudos/internal/api"
	"github.com/bvale/kudos/internal/store"
)

var kindGlyphs = map[string]string{
	"like":  "👍",
	"love":  "❤️",
	"laugh": "😂",
	"wow":   "😮",
	"sad":   "😢",
}

// View renders the item list, the selected item's reaction detail, and the
// status bar.
func (m *Model) View() string {
	var b strings.Builder

	title := "kudos"
	if m.sig.Active() {
		title += " — " + m.sig.User()
	} else {
		title += " — signed out"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	for i, itemID := range m.items {
		line := m.renderItem(itemID)
		if i == m.selected {
			line = m.styles.Selected.Render("▸ " + line)
		} else {
			line = m.styles.Text.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetail(m.items[m.selected]))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.styles.Error.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render(m.helpLine()))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderItem renders one list row: item id plus a compact count summary.
func (m *Model) renderItem(itemID string) string {
	r, ok := m.reactions[itemID]
	if !ok {
		return fmt.Sprintf("%s  (loading)", itemID)
	}
	return fmt.Sprintf("%s  %s", itemID, summarize(r))
}

// renderDetail renders the per-kind breakdown for the selected item with the
// user's own reaction highlighted.
func (m *Model) renderDetail(itemID string) string {
	r, ok := m.reactions[itemID]
	if !ok {
		return m.styles.Panel.Render(m.styles.Muted.Render("loading " + itemID + "..."))
	}

	var cells []string
	for i, kind := range api.KnownKinds {
		glyph := kindGlyphs[kind]
		cell := fmt.Sprintf("%d %s %d", i+1, glyph, r.Counts[kind])
		if r.UserReaction == kind {
			cell = m.styles.Owned.Render(cell)
		} else {
			cell = m.styles.Text.Render(cell)
		}
		cells = append(cells, cell)
	}
	return m.styles.Panel.Render(strings.Join(cells, "   "))
}

func (m *Model) helpLine() string {
	return "↑/↓ select · 1-5 react · x clear · r resync · s/o sign in/out · T theme · q quit"
}

// summarize renders nonzero counts in vocabulary order, or a dash when the
// item has no reactions at all.
func summarize(r store.Reaction) string {
	var parts []string
	for _, kind := range api.KnownKinds {
		if n := r.Counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", kindGlyphs[kind], n))
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, "  ")
}
