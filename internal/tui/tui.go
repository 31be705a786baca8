package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/wastat/internal/filter"
)

const debounceDelay = 200 * time.Millisecond

// message types

type itemsMsg struct {
	query string
	items []item
	err   error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	src         source
	query       string
	items       []item
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // item key and width, to avoid duplicate renders
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      *item
}

func initialModel(src source, query string) model {
	ti := textinput.New()
	ti.Placeholder = src.Placeholder()
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		src:         src,
		query:       query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// RunDashboard starts the participant dashboard and blocks until it exits.
// Enter copies the report of the selected participant to the clipboard.
func RunDashboard(d *Dashboard, participant string) error {
	if participant == filter.AllParticipants {
		participant = ""
	}
	return run(d, participant)
}

// RunSearch starts interactive message search and blocks until it exits.
// Enter copies the selected message to the clipboard.
func RunSearch(s *MessageSearch, query string) error {
	return run(s, query)
}

func run(src source, query string) error {
	m := initialModel(src, query)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.chosen == nil {
		return nil
	}
	text, err := src.Choose(*fm.chosen)
	if err != nil {
		return err
	}
	copyText(os.Stdout, text)
	return nil
}

// copyText puts text on the clipboard, or prints it when no clipboard is
// available.
func copyText(w io.Writer, text string) {
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Fprintln(w, text)
		return
	}
	first, _, _ := strings.Cut(text, "\n")
	fmt.Fprintf(w, "Copied to clipboard: %s\n", first)
}

// Init triggers the initial list load.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadItems(m.query))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		// Re-render preview if we have a selection
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.items) > 0 && m.cursor < len(m.items) {
				it := m.items[m.cursor]
				m.chosen = &it
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		// Check if query changed
		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedLoad(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.items) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := max(len(m.items)-visibleItems, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.items) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			if vpCmd != nil {
				cmds = append(cmds, vpCmd)
			}
			return m, tea.Batch(cmds...)
		}

		return m, nil

	case debounceTickMsg:
		// Only reload if the query hasn't changed since the tick was scheduled
		if msg.query == m.query {
			cmds = append(cmds, m.loadItems(msg.query))
		}
		return m, tea.Batch(cmds...)

	case itemsMsg:
		// Only apply if this list matches the current query
		if msg.query != m.query {
			return m, nil
		}
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if msg.err != nil {
			m.items = nil
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.items = msg.items
		if len(m.items) > 0 {
			cmds = append(cmds, m.loadCurrentPreview())
		} else {
			m.preview.SetContent("")
		}
		return m, tea.Batch(cmds...)

	case previewRenderedMsg:
		if msg.key == m.previewKey {
			// Already showing this preview, skip
			return m, nil
		}
		// Check if this preview is still the one we want
		if msg.key != m.wantPreviewKey() {
			return m, nil // stale preview
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			if msg.hitLine > 0 {
				m.preview.SetYOffset(msg.hitLine)
			} else {
				m.preview.GotoTop()
			}
		}
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	// Layout dimensions
	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	// Input row
	inputRow := m.filterInput.View()

	// List panel
	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	// Preview panel
	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	// Join panels side by side
	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 35% for list, minus border padding
	return max(m.width*35/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 65% for preview, minus border padding
	return max(m.width*65/100-4, 20)
}

// contentWidth is the preview width left for rendered text.
func (m model) contentWidth() int {
	return max(m.previewWidth()-2, 10)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}

	if x > listBoxRight+1 {
		return regionPreview, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d items", len(m.items)),
		"click/up/dn navigate",
		"scroll/C-u/C-d preview",
		"Enter copy",
		"Esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) loadItems(query string) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		items, err := src.Items(query)
		return itemsMsg{query: query, items: items, err: err}
	}
}

func (m model) scheduleDebouncedLoad(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) wantPreviewKey() string {
	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return ""
	}
	return previewCacheKey(m.items[m.cursor], m.contentWidth())
}

func (m model) loadCurrentPreview() tea.Cmd {
	want := m.wantPreviewKey()
	if want == "" || want == m.previewKey {
		return nil // nothing selected, or already showing it
	}
	return loadPreviewCmd(m.src, m.items[m.cursor], m.query, m.contentWidth())
}
