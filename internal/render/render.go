package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
)

const (
	colorReset   = "\033[0m"
	colorSender  = "\033[1;34m" // bold blue
	colorMedia   = "\033[1;32m" // bold green
	colorSystem  = "\033[2;35m" // dim magenta
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
	colorBold    = "\033[1m"
)

const timeLayout = "2006-01-02 15:04:05"

type Options struct {
	HitMsgID string
	Context  int            // messages before/after hit to show
	Width    int            // wrap width (0 = no wrap)
	Query    string         // search query for keyword highlighting
	Location *time.Location // nil = local
	NoColor  bool
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	for _, term := range strings.Fields(query) {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			// lowering must keep byte offsets for the slice below
			hay := strings.ToLower(text[i:])
			if len(hay) != len(text[i:]) {
				break
			}
			idx := strings.Index(hay, lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// stripANSI removes the escape sequences this package emits.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func senderStyle(m index.MessageRow) (string, string) {
	switch {
	case m.IsSystem:
		return colorSystem, strings.ToUpper(parse.SystemSender)
	case m.Type.IsMedia():
		return colorMedia, m.Sender
	default:
		return colorSender, m.Sender
	}
}

// RenderConversation renders the messages around opts.HitMsgID and returns
// the content, the 0-based line of the hit message header (-1 if no hit),
// and any error.
func RenderConversation(db *index.DB, chatKey string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1000000 // no limit
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	chat, err := db.GetChat(chatKey)
	if err != nil {
		return "", -1, fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return "", -1, fmt.Errorf("chat not found: %s", chatKey)
	}

	msgs, hitIdx, startPos, totalCount, err := db.GetMessagesWindow(chatKey, opts.HitMsgID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}

	if totalCount == 0 {
		return "(empty chat)", -1, nil
	}

	skipAfter := totalCount - startPos - len(msgs)

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := colorDim + strings.Repeat("-", 50) + colorReset
	wrapW := opts.Width

	// helper to track line count; wraps long lines if Width is set
	writeLine := func(s string) {
		if opts.NoColor {
			s = stripANSI(s)
		}
		for _, wl := range wrapLine(s, wrapW) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s (%d messages) ---%s", colorDim, chat.Name, chat.MessageCount, colorReset))

	if startPos > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, startPos, colorReset))
	}

	for i, m := range msgs {
		isHit := i == hitIdx

		if i > 0 {
			writeLine(separator)
		}

		if isHit {
			hitLine = lineCount
		}

		color, label := senderStyle(m)
		ts := m.Timestamp.In(loc).Format(timeLayout)
		if m.IsSystem {
			// notices carry the parse time, not a real one
			ts = "-"
		}

		if isHit {
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, label, ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", color, label, colorReset, colorDim, ts, colorReset))
		}

		text := m.Content
		if m.Type != parse.TypeText {
			text = fmt.Sprintf("%s[%s]%s %s", colorDim, m.Type, colorReset, text)
		}
		text = highlightKeywords(text, opts.Query)
		text = indentLines(text, "  ")

		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
		writeLine("")
	}

	if skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine, nil
}
