package search

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
)

type Result struct {
	ChatKey   string
	ChatName  string
	MsgID     string
	Timestamp time.Time
	Sender    string
	Type      parse.MessageType
	Line      int
	Snippet   string
	Rank      float64
}

type Options struct {
	Query   string
	ChatKey string            // "" = all chats
	Sender  string            // "" = all senders
	Type    parse.MessageType // "" = all types
	Since   time.Time         // zero = no filter
	Until   time.Time         // zero = no filter
	Limit   int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	runes := []rune(text)
	if idx < 0 || len(lower) != len(text) {
		// no match, or lowering changed byte offsets: return head
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := max(runePos-contextChars, 0)
	end := min(runePos+qLen+contextChars, len(runes))

	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+qLen]) + "<<<" +
		string(runes[runePos+qLen:end])
	return prefix + snippet + suffix
}

// ftsQuery quotes every term so punctuation in chat text (":)", "-", "'")
// is never read as FTS5 syntax. Terms are implicitly ANDed; terms without
// a letter or digit produce no tokens and are dropped.
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.IndexFunc(f, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	if containsCJK(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

// filters builds the WHERE conditions shared by both search paths.
func filters(opts Options) ([]string, []any) {
	var conditions []string
	var args []any

	if opts.ChatKey != "" {
		conditions = append(conditions, "m.chat_key = ?")
		args = append(args, opts.ChatKey)
	}
	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	}
	if opts.Type != "" {
		conditions = append(conditions, "m.type = ?")
		args = append(args, string(opts.Type))
	}
	// system notices carry the parse time, so date bounds skip them
	if !opts.Since.IsZero() {
		conditions = append(conditions, "(m.type = 'system' OR m.ts >= ?)")
		args = append(args, opts.Since.UnixNano())
	}
	if !opts.Until.IsZero() {
		conditions = append(conditions, "(m.type = 'system' OR m.ts <= ?)")
		args = append(args, opts.Until.UnixNano())
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	match := ftsQuery(opts.Query)
	if match == "" {
		return nil, nil
	}
	conditions := []string{"messages_fts MATCH ?"}
	args := []any{match}

	more, moreArgs := filters(opts)
	conditions = append(conditions, more...)
	args = append(args, moreArgs...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			c.name,
			m.msg_id,
			m.ts,
			m.sender,
			m.type,
			m.line_number,
			snippet(messages_fts, 0, '>>>','<<<', '...', 16) as snip,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY rank, m.ts
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows, nil)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	// LIKE match for CJK substring search
	conditions := []string{"m.content LIKE ?"}
	args := []any{"%" + opts.Query + "%"}

	more, moreArgs := filters(opts)
	conditions = append(conditions, more...)
	args = append(args, moreArgs...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.chat_key,
			c.name,
			m.msg_id,
			m.ts,
			m.sender,
			m.type,
			m.line_number,
			m.content,
			0.0
		FROM messages m
		JOIN chats c ON m.chat_key = c.chat_key
		WHERE %s
		ORDER BY m.ts DESC
		LIMIT ?
	`, where)

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows, func(content string) string {
		return makeSnippet(content, opts.Query, 30)
	})
}

// scanResults reads result rows; snip, when set, turns the selected text
// column into the snippet.
func scanResults(rows *sql.Rows, snip func(string) string) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var (
			r   Result
			ts  int64
			typ string
		)
		if err := rows.Scan(
			&r.ChatKey, &r.ChatName, &r.MsgID, &ts,
			&r.Sender, &typ, &r.Line,
			&r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, ts)
		r.Type = parse.MessageType(typ)
		if snip != nil {
			r.Snippet = snip(r.Snippet)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
