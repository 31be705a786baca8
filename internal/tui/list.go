package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each item occupies.
const linesPerItem = 2

// renderList renders the left panel: the item list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.items) == 0 {
		text := "No results"
		if m.query == "" && !m.src.EmptyQueryLists() {
			text = "Type to search"
		}
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(text)
		return empty
	}

	var lines []string
	for i, it := range m.items {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatItemLine(it, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatItemLine formats a single item as two lines:
//
//	line 1: [>] title  count
//	line 2:    detail (dimmed)
func formatItemLine(it item, width int, selected bool) []string {
	count := ""
	if it.count > 0 {
		count = fmt.Sprint(it.count)
	}

	// Truncate title to fit width: leave room for prefix and count
	title := strings.ReplaceAll(it.title, "\n", " ")
	titleMax := max(width-2-len(count)-1, 0)
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "…")
	}
	title = runewidth.FillRight(title, titleMax)

	line1 := title
	if count != "" {
		line1 += " " + styleCount.Render(count)
	}
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	// Line 2: detail (dimmed, indented)
	detail := strings.ReplaceAll(it.detail, "\n", " ")
	detail = strings.ReplaceAll(detail, "\t", " ")
	detail = strings.ReplaceAll(detail, ">>>", "")
	detail = strings.ReplaceAll(detail, "<<<", "")
	detailMax := max(width-4, 0) // indent
	if runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(detail)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
