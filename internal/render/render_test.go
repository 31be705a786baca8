package render

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/stats"
)

const export = `Messages and calls are end-to-end encrypted.
[2024/01/01, 10:00:00] Alice: Good morning 😀
[2024/01/01, 10:05:00] Bob: morning! <attached: 00001-PHOTO.jpg>
[2024/01/02, 21:00:00] Alice: see you at the lake
[2024/01/03, 08:00:00] 李雷: 早上好`

func parsed() []parse.Message {
	p := &parse.Parser{Location: time.UTC, Now: func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }}
	return p.Parse(export)
}

func TestHighlightKeywords(t *testing.T) {
	assert.Equal(t, "a "+colorBoldRed+"Lake"+colorReset+" and a "+colorBoldRed+"lake"+colorReset,
		highlightKeywords("a Lake and a lake", "lake"))
	assert.Equal(t, "unchanged", highlightKeywords("unchanged", ""))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrapLine("abcdef", 4))
	// wide runes take two columns
	assert.Equal(t, []string{"早上", "好"}, wrapLine("早上好", 4))
	// escapes do not count towards the width
	assert.Equal(t, []string{colorDim + "abcd", "ef" + colorReset}, wrapLine(colorDim+"abcdef"+colorReset, 4))
	assert.Equal(t, []string{""}, wrapLine("", 4))
	assert.Equal(t, []string{"abcdef"}, wrapLine("abcdef", 0))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "plain text", stripANSI(colorBold+"plain"+colorReset+" "+colorHit+"text"+colorReset))
}

func TestRenderConversation(t *testing.T) {
	db, err := index.OpenMemory()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, index.LoadChat(db, "k", "Friends", &parse.ParseResult{Messages: parsed()}))

	out, hitLine, err := RenderConversation(db, "k", Options{
		HitMsgID: "msg-3",
		Context:  1,
		Query:    "lake",
		Location: time.UTC,
		NoColor:  true,
	})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "--- Friends (5 messages) ---", lines[0])
	assert.Equal(t, "... (2 messages before) ...", lines[1])
	assert.Equal(t, ">> Alice > 2024-01-02 21:00:00 <<", lines[hitLine])
	assert.Contains(t, out, "  see you at the lake")
	assert.Contains(t, out, "  [image] morning!")
	assert.NotContains(t, out, "\033[")
	assert.NotContains(t, out, "messages after")

	_, _, err = RenderConversation(db, "missing", Options{})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	msgs := parsed()
	s := (&stats.Aggregator{Now: func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }}).Aggregate(msgs)

	out := Report(s, msgs, ReportOptions{
		Title:       "Friends",
		TopN:        3,
		HeatmapDays: 3,
		Width:       60,
		Now:         time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
		NoColor:     true,
	})

	field := func(name, value string) string {
		return runewidth.FillRight(name, 16) + " " + value
	}
	for _, want := range []string{
		"== Friends ==",
		// 46 hours span two started days
		field("Messages", "4 (2.0 per day)"),
		field("Media", "1  images 1, videos 0, audio 0, stickers 0, gifs 0"),
		field("Date range", "2024-01-01 to 2024-01-03"),
		field("Most active", "Monday, 10:00"),
		field("Longest streak", "3 days"),
		"-- Participants --",
		"(100%)",
		"(50%)",
		"-- Top 3 words --",
		"-- Top 3 emoji --",
		"-- Message length --",
		"0-49 chars",
		"-- Last 3 days --",
		"2024-01-03",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\033[")

	// one row per hour, including the empty ones
	assert.Equal(t, 24, strings.Count(out, ":00 "))
}

func TestReportEmpty(t *testing.T) {
	s := stats.Aggregate(nil)
	out := Report(s, nil, ReportOptions{Title: "Empty", NoColor: true})
	assert.Equal(t, "== Empty ==\nNo messages.\n", out)
}

func TestReportColor(t *testing.T) {
	msgs := parsed()
	out := Report(stats.Aggregate(msgs), msgs, ReportOptions{})
	assert.Contains(t, out, colorBold+"-- Participants --"+colorReset)
}
