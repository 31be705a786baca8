package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	key     string
	content string
	hitLine int
	err     error
}

// loadPreviewCmd returns a tea.Cmd that renders the preview async.
func loadPreviewCmd(src source, it item, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := src.Preview(it, query, width)
		return previewRenderedMsg{
			key:     previewCacheKey(it, width),
			content: content,
			hitLine: hitLine,
			err:     err,
		}
	}
}

// previewCacheKey identifies a rendered preview; a resize needs a new one.
func previewCacheKey(it item, width int) string {
	return it.key + "@" + strconv.Itoa(width)
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
