package tui

import (
	"fmt"
	"strings"

	"launchpad-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m gridModel) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.gridView())
	b.WriteString("\n")
	if line := m.statusView(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m gridModel) headerView() string {
	title := styleHeader().Render("Launchpad")
	if m.openFolder != "" {
		if f, ok := m.renameTarget(); ok {
			title += styleMuted().Render(" › ") + styleFolderName().Render(f.Name)
		}
	}
	var right string
	switch {
	case m.mode == modeSearch || m.mode == modeRename:
		right = m.input.View()
	case m.search.Query() != "":
		right = styleMuted().Render("/ " + m.search.Query())
	}
	if m.org.Loading() {
		right += styleMuted().Render("  scanning…")
	}
	return title + "  " + right
}

func (m gridModel) gridView() string {
	if len(m.items) == 0 {
		if m.search.Debounced() != "" && m.openFolder == "" {
			return styleMuted().Render("no matches")
		}
		return styleMuted().Render("nothing here yet")
	}
	cols := m.columns()
	var rows []string
	for start := 0; start < len(m.items); start += cols {
		end := start + cols
		if end > len(m.items) {
			end = len(m.items)
		}
		tiles := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			tiles = append(tiles, m.tileView(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m gridModel) tileView(i int) string {
	it := m.items[i]
	inner := tileWidth - 4
	label := truncate(it.ItemName(), inner)
	if f, ok := it.(model.Folder); ok {
		label = styleFolderName().Render(truncate(f.Name, inner-4)) + styleMuted().Render(fmt.Sprintf(" (%d)", len(f.Items)))
	}
	selected := i == m.cursor
	marked := m.pickSrc != "" && it.ItemID() == m.pickSrc
	return styleTile(selected, marked).Render(label)
}

func (m gridModel) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styleError().Render(m.status)
	}
	return styleMuted().Render(m.status)
}

// truncate cuts s to w terminal cells, ending with an ellipsis when cut.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Truncate(s, w, "…")
}
