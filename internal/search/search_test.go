package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
)

const export = `[2024/01/01, 10:00:00] Alice: Dinner at the harbour tonight?
[2024/01/01, 10:05:00] Bob: Sure, harbour at 8 :)
[2024/01/03, 18:00:00] Alice: <attached: 00002-PHOTO-harbour.jpg>
[2024/01/04, 09:00:00] Carol: 我们明天见
[2024/01/05, 11:00:00] Bob: don't forget the tickets`

func loaded(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p := &parse.Parser{Location: time.UTC}
	result := &parse.ParseResult{Messages: p.Parse(export)}
	require.NoError(t, index.LoadChat(db, "chat.txt", "chat", result))
	return db
}

func ids(results []Result) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.MsgID)
	}
	return out
}

func TestSearchFTS(t *testing.T) {
	db := loaded(t)

	results, err := Search(db, Options{Query: "harbour"})
	require.NoError(t, err)
	// the tokenizer splits attachment names, so the photo matches too
	assert.ElementsMatch(t, []string{"msg-0", "msg-1", "msg-2"}, ids(results))
	for _, r := range results {
		assert.Contains(t, r.Snippet, ">>>harbour<<<")
		assert.Equal(t, "chat", r.ChatName)
	}
}

func TestSearchFilters(t *testing.T) {
	db := loaded(t)

	results, err := Search(db, Options{Query: "harbour", Sender: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1"}, ids(results))
	assert.Equal(t, 2, results[0].Line)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC), results[0].Timestamp.UTC())

	results, err = Search(db, Options{Query: "tickets", Since: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(db, Options{Query: "tickets", Until: time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-4"}, ids(results))

	results, err = Search(db, Options{Query: "harbour", Type: parse.TypeImage})
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-2"}, ids(results))

	results, err = Search(db, Options{Query: "harbour", ChatKey: "other.txt"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchDateBoundsSkipSystemNotices(t *testing.T) {
	db, err := index.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	p := &parse.Parser{Location: time.UTC, Now: func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }}
	content := "Messages and calls are end-to-end encrypted.\n" +
		"[2024/01/01, 10:00:00] Alice: encrypted backups are on"
	require.NoError(t, index.LoadChat(db, "chat.txt", "chat", &parse.ParseResult{Messages: p.Parse(content)}))

	results, err := Search(db, Options{Query: "encrypted", Until: time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"system-0", "msg-1"}, ids(results))

	results, err = Search(db, Options{Query: "encrypted", Since: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, []string{"system-0"}, ids(results))
}

func TestSearchPunctuationIsLiteral(t *testing.T) {
	db := loaded(t)

	for _, q := range []string{"don't", "8 :)", `"tickets`, "harbour-tonight"} {
		_, err := Search(db, Options{Query: q})
		assert.NoError(t, err, q)
	}

	results, err := Search(db, Options{Query: ":)"})
	require.NoError(t, err)
	assert.Empty(t, results, "punctuation-only queries match nothing")

	_, err = Search(db, Options{Query: "   "})
	assert.Error(t, err)
}

func TestSearchCJKFallsBackToLike(t *testing.T) {
	db := loaded(t)

	results, err := Search(db, Options{Query: "明天"})
	require.NoError(t, err)
	require.Equal(t, []string{"msg-3"}, ids(results))
	assert.Equal(t, "我们>>>明天<<<见", results[0].Snippet)
	assert.Equal(t, "Carol", results[0].Sender)
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "...ef >>>Needle<<< gh...", makeSnippet("abcdef Needle ghijkl", "needle", 3))
	assert.Equal(t, "short", makeSnippet("short", "absent", 10))
	assert.Equal(t, "abcd...", makeSnippet("abcdefgh", "zz", 2))
	assert.Equal(t, ">>>x<<<", makeSnippet("x", "x", 5))
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"harbour" "8"`, ftsQuery("harbour 8 :)"))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
	assert.Equal(t, "", ftsQuery("  "))
	assert.Equal(t, "", ftsQuery(":) -- !"))
}
