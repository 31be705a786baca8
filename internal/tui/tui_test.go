package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/render"
	"github.com/Zuo-Peng/wastat/internal/search"
	"github.com/Zuo-Peng/wastat/internal/stats"
)

var fixedNow = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

const export = `Messages and calls are end-to-end encrypted.
[2024/01/01, 10:00:00] Alice: Good morning
[2024/01/01, 10:05:00] Bob: morning! <attached: 00001-PHOTO.jpg>
[2024/01/02, 21:00:00] Alice: see you at the lake
[2024/01/03, 08:00:00] Alice: lake was cold`

func parsed() []parse.Message {
	p := &parse.Parser{Location: time.UTC, Now: func() time.Time { return fixedNow }}
	return p.Parse(export)
}

func testDashboard() *Dashboard {
	return &Dashboard{
		Title:      "Friends",
		Messages:   parsed(),
		Report:     render.ReportOptions{Now: fixedNow, HeatmapDays: 3},
		Aggregator: &stats.Aggregator{Now: func() time.Time { return fixedNow }},
	}
}

func TestDashboardItems(t *testing.T) {
	d := testDashboard()

	items, err := d.Items("")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, everyoneKey, items[0].key)
	assert.Equal(t, 4, items[0].count)
	assert.Equal(t, "Alice", items[1].key)
	assert.Equal(t, 3, items[1].count)
	assert.Equal(t, "75.0% of messages", items[1].detail)
	assert.Equal(t, "Bob", items[2].key)

	items, err = d.Items("BO")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bob", items[0].key)
}

func TestDashboardPreviewReaggregates(t *testing.T) {
	d := testDashboard()

	out, hitLine, err := d.Preview(item{key: "Bob", title: "Bob"}, "", 60)
	require.NoError(t, err)
	assert.Equal(t, -1, hitLine)
	assert.Contains(t, out, "Friends: Bob")

	text, err := d.Choose(item{key: "Bob", title: "Bob"})
	require.NoError(t, err)
	assert.NotContains(t, text, "\033[")
	assert.Contains(t, text, "images 1")
	assert.NotContains(t, text, "Alice")

	all, err := d.Choose(item{key: everyoneKey})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(all, "== Friends ==\n"))
	assert.Contains(t, all, "Alice")
}

func TestDashboardSenderNamedAll(t *testing.T) {
	p := &parse.Parser{Location: time.UTC, Now: func() time.Time { return fixedNow }}
	d := testDashboard()
	d.Messages = p.Parse("[2024/01/01, 10:00:00] all: hi everyone\n" +
		"[2024/01/01, 10:01:00] Bob: hi\n" +
		"[2024/01/01, 10:02:00] Bob: hello")

	items, err := d.Items("")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "all", items[2].key)

	s, msgs := d.selection(items[2].key)
	assert.Equal(t, 1, s.TotalMessages)
	require.Len(t, msgs, 1)
	assert.Equal(t, "all", msgs[0].Sender)

	s, _ = d.selection(items[0].key)
	assert.Equal(t, 3, s.TotalMessages)
}

func testSearch(t *testing.T) *MessageSearch {
	t.Helper()
	db, err := index.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, index.LoadChat(db, "k", "Friends", &parse.ParseResult{Messages: parsed()}))
	return &MessageSearch{DB: db, Options: search.Options{Limit: 10}, Location: time.UTC}
}

func TestMessageSearchSource(t *testing.T) {
	s := testSearch(t)

	items, err := s.Items("")
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = s.Items("lake")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Contains(t, it.title, "Alice")
		assert.Contains(t, it.detail, ">>>lake<<<")
	}

	out, hitLine, err := s.Preview(items[0], "lake", 60)
	require.NoError(t, err)
	assert.Greater(t, hitLine, 0)
	assert.Contains(t, out, "Friends")

	text, err := s.Choose(item{chatKey: "k", msgID: "msg-3"})
	require.NoError(t, err)
	assert.Equal(t, "[2024/01/02, 21:00:00] Alice: see you at the lake", text)

	_, err = s.Choose(item{chatKey: "k", msgID: "msg-99"})
	assert.Error(t, err)
}

func TestModelNavigation(t *testing.T) {
	m := initialModel(testDashboard(), "")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(model)
	assert.True(t, m.ready)

	items, err := m.src.Items("")
	require.NoError(t, err)
	next, cmd := m.Update(itemsMsg{query: "", items: items})
	m = next.(model)
	require.Len(t, m.items, 3)
	require.NotNil(t, cmd, "selecting the first item loads its preview")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	assert.Equal(t, 1, m.cursor)

	// stale lists for an older query are ignored
	next, _ = m.Update(itemsMsg{query: "old", items: nil})
	m = next.(model)
	assert.Len(t, m.items, 3)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, m.chosen)
	assert.Equal(t, "Alice", m.chosen.key)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModelPreviewStaleIgnored(t *testing.T) {
	m := initialModel(testDashboard(), "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(model)
	items, _ := m.src.Items("")
	next, _ = m.Update(itemsMsg{items: items})
	m = next.(model)

	next, _ = m.Update(previewRenderedMsg{key: "Bob@1", content: "stale"})
	m = next.(model)
	assert.Empty(t, m.previewKey)

	want := m.wantPreviewKey()
	next, _ = m.Update(previewRenderedMsg{key: want, content: "fresh", hitLine: -1})
	m = next.(model)
	assert.Equal(t, want, m.previewKey)
	assert.Contains(t, m.View(), "fresh")
}

func TestFormatItemLine(t *testing.T) {
	lines := formatItemLine(item{title: "A very long participant name indeed", detail: "a >>>hit<<< here", count: 42}, 20, false)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  A very long"))
	assert.Contains(t, lines[0], "42")
	assert.Contains(t, lines[1], "a hit here")
}

func TestCopyTextFallsBackToPrint(t *testing.T) {
	var buf bytes.Buffer
	copyText(&buf, "line one\nline two")
	out := buf.String()
	// either copied (first line echoed) or printed in full
	assert.Contains(t, out, "line one")
}
