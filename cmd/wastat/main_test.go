package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/render"
	"github.com/Zuo-Peng/wastat/internal/scan"
	"github.com/Zuo-Peng/wastat/internal/stats"
)

const export = "Messages and calls are end-to-end encrypted.\n" +
	"[2024/01/01, 10:00:00] Alice: Hello\tthere\n" +
	"second line\n" +
	"[2024/01/02, 11:00:00] Bob: <attached: 00001-PHOTO.jpg>\n"

func parsed() []parse.Message {
	p := &parse.Parser{Location: time.UTC, Now: func() time.Time { return time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) }}
	return p.Parse(export)
}

func TestWriteMessagesTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMessagesTSV(&buf, parsed()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "system-0\t2024-01-03T00:00:00Z\tsystem\tSystem\t-\tMessages and calls are end-to-end encrypted.", lines[0])
	assert.Equal(t, "msg-1\t2024-01-01T10:00:00Z\ttext\tAlice\t-\tHello there second line", lines[1])
	assert.Equal(t, "msg-3\t2024-01-02T11:00:00Z\timage\tBob\t00001-PHOTO.jpg\t<attached: 00001-PHOTO.jpg>", lines[2])
}

func TestWriteMessagesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMessagesJSON(&buf, parsed()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &m))
	assert.Equal(t, true, m["isSystemMessage"])
	assert.Equal(t, "system", m["type"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &m))
	assert.Equal(t, "00001-PHOTO.jpg", m["mediaFile"])
	assert.Equal(t, float64(4), m["line"])
}

func TestFilterFlagsOptions(t *testing.T) {
	ff := filterFlags{participant: "Alice", since: "2024-01-01", until: "2024-01-01", types: "text"}
	opts, err := ff.options(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Alice", opts.Participant)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), opts.Since)
	assert.Equal(t, time.Date(2024, 1, 1, 23, 59, 59, 999999999, time.UTC), opts.Until)
	assert.Equal(t, []parse.MessageType{parse.TypeText}, opts.Types)

	for _, bad := range []filterFlags{{since: "yesterday"}, {until: "2024-13-01"}, {types: "pdf"}} {
		_, err := bad.options(time.UTC)
		assert.Error(t, err)
	}
}

func TestNewAnalysisJSON(t *testing.T) {
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	a := newAnalysis(parsed(), render.ReportOptions{TopN: 2, HeatmapDays: 3, LengthBucket: 50}, now)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, a))

	var decoded struct {
		Summary struct {
			TotalMessages int            `json:"totalMessages"`
			TotalImages   int            `json:"totalImages"`
			ByHour        map[string]int `json:"messagesByHour"`
		} `json:"summary"`
		TopWords []stats.Count    `json:"topWords"`
		Heatmap  []stats.DayCount `json:"heatmap"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Summary.TotalMessages)
	assert.Equal(t, 1, decoded.Summary.TotalImages)
	assert.Len(t, decoded.Summary.ByHour, 24)
	assert.Len(t, decoded.TopWords, 2)
	assert.Len(t, decoded.Heatmap, 3)
}

func TestWriteListing(t *testing.T) {
	var buf bytes.Buffer
	writeListing(&buf, []chatListing{
		{file: scan.FileInfo{Name: "Family", Path: "/x/Family/_chat.txt"}, summary: stats.Aggregate(parsed())},
		{file: scan.FileInfo{Name: "Empty", Path: "/x/Empty.txt"}, summary: stats.Aggregate(nil)},
	})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "CHAT"))
	assert.Contains(t, lines[1], "2024-01-01 2024-01-02")
	assert.Contains(t, lines[1], "/x/Family/_chat.txt")
	assert.Contains(t, lines[2], " - ")
}

func TestLoadIndexFileAndDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("[2024/02/01, 09:00:00] Carol: hi\n"), 0o644))

	e := &env{loc: time.UTC, parser: &parse.Parser{Location: time.UTC}}

	db, err := e.loadIndex(path)
	require.NoError(t, err)
	n, err := db.ChatCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	chat, err := db.GetChat(path)
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, "chat", chat.Name)
	db.Close()

	db, err = e.loadIndex(dir)
	require.NoError(t, err)
	defer db.Close()
	n, err = db.ChatCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = e.loadIndex(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
