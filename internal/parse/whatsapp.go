package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// headerRe matches "[YYYY/MM/DD, HH:MM:SS] Sender: content".
var headerRe = regexp.MustCompile(`^\[(\d{4}/\d{2}/\d{2}), (\d{2}:\d{2}:\d{2})\] ([^:]+): (.+)$`)

const headerLayout = "2006/01/02 15:04:05"

// systemNotices are phrases WhatsApp inserts into exports on its own.
var systemNotices = []string{
	"Messages and calls are end-to-end encrypted",
	"This chat is with a business account",
	"You blocked this business",
	"You unblocked this business",
}

// Parser turns the text of a chat export into messages.
// Export timestamps carry no zone; they are read in Location.
// Now stamps system notices, which have no timestamp of their own.
type Parser struct {
	Location *time.Location
	Now      func() time.Time
}

// Parse parses content with the local time zone and the wall clock.
func Parse(content string) []Message {
	return (&Parser{}).Parse(content)
}

func (p *Parser) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Parse walks the lines of content keeping at most one pending message.
// Header lines start a new message, system notices are emitted on their own,
// and any other non-blank line is appended to the pending message.
func (p *Parser) Parse(content string) []Message {
	lines := strings.Split(content, "\n")
	messages := make([]Message, 0, len(lines)/2)

	var pending *Message
	flush := func() {
		if pending != nil {
			messages = append(messages, *pending)
			pending = nil
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if isSystemNotice(line) {
			flush()
			messages = append(messages, Message{
				ID:        fmt.Sprintf("system-%d", i),
				Timestamp: p.now(),
				Sender:    SystemSender,
				Content:   trimmed,
				Type:      TypeSystem,
				IsSystem:  true,
				Line:      i + 1,
			})
			continue
		}

		if m := p.parseHeader(line, i); m != nil {
			flush()
			pending = m
			continue
		}

		// continuation of the pending message; dropped when nothing is pending
		if pending != nil {
			pending.Content += " " + trimmed
		}
	}
	flush()

	return messages
}

func isSystemNotice(line string) bool {
	for _, notice := range systemNotices {
		if strings.Contains(line, notice) {
			return true
		}
	}
	return false
}

func (p *Parser) parseHeader(line string, index int) *Message {
	match := headerRe.FindStringSubmatch(line)
	if match == nil {
		return nil
	}
	dateStr, timeStr, sender, content := match[1], match[2], match[3], match[4]

	ts, err := time.ParseInLocation(headerLayout, dateStr+" "+timeStr, p.location())
	if err != nil {
		// the regex guarantees the shape, not the range: 2024/02/30 still
		// starts a message, its date rolled over the way time.Date does
		ts = p.rollover(dateStr, timeStr)
	}

	typ, mediaFile := Classify(content)
	return &Message{
		ID:        fmt.Sprintf("msg-%d", index),
		Timestamp: ts,
		Sender:    strings.TrimSpace(sender),
		Content:   strings.TrimSpace(content),
		Type:      typ,
		MediaFile: mediaFile,
		Line:      index + 1,
	}
}

// rollover builds the timestamp of a well-shaped but out-of-range header
// field by field, letting overflowing values carry into the next unit.
func (p *Parser) rollover(dateStr, timeStr string) time.Time {
	var v [6]int
	fields := append(strings.Split(dateStr, "/"), strings.Split(timeStr, ":")...)
	for i, f := range fields {
		v[i], _ = strconv.Atoi(f)
	}
	return time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], 0, p.location())
}
