package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/wastat/internal/filter"
	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/render"
	"github.com/Zuo-Peng/wastat/internal/search"
	"github.com/Zuo-Peng/wastat/internal/stats"
)

// item is one row of the list panel.
type item struct {
	key    string
	title  string
	detail string
	count  int

	chatKey string
	msgID   string
}

// source feeds the list panel and renders the preview of the selected item.
type source interface {
	// Items lists the entries matching the input text.
	Items(query string) ([]item, error)
	// Preview renders an item and returns the line to scroll to (-1 for top).
	Preview(it item, query string, width int) (string, int, error)
	// Choose returns the text copied to the clipboard when an item is picked.
	Choose(it item) (string, error)
	// Placeholder is shown in the empty input.
	Placeholder() string
	// EmptyQueryLists reports whether an empty input lists everything.
	EmptyQueryLists() bool
}

// Dashboard lists the participants of a chat and previews the statistics
// report of the selected one, recomputed over their messages only.
type Dashboard struct {
	Title      string
	Messages   []parse.Message
	Filter     filter.Options // date and type bounds; the participant comes from the list
	Report     render.ReportOptions
	Aggregator *stats.Aggregator
}

func (d *Dashboard) aggregator() *stats.Aggregator {
	if d.Aggregator == nil {
		return &stats.Aggregator{}
	}
	return d.Aggregator
}

// everyoneKey keys the "All participants" row; it can never be a sender name.
const everyoneKey = "\x00everyone"

func (d *Dashboard) selection(key string) (stats.Summary, []parse.Message) {
	opts := d.Filter
	opts.Participant = ""
	if key != everyoneKey {
		opts.Sender = key
	}
	msgs := filter.Apply(d.Messages, opts)
	return d.aggregator().Aggregate(msgs), msgs
}

func (d *Dashboard) Items(query string) ([]item, error) {
	all, _ := d.selection(everyoneKey)
	q := strings.ToLower(strings.TrimSpace(query))

	var items []item
	if q == "" {
		items = append(items, item{
			key:    everyoneKey,
			title:  "All participants",
			detail: fmt.Sprintf("%d participants", len(all.Participants)),
			count:  all.TotalMessages,
		})
	}
	for _, c := range stats.Top(all.ByParticipant, 0) {
		if q != "" && !strings.Contains(strings.ToLower(c.Key), q) {
			continue
		}
		items = append(items, item{
			key:    c.Key,
			title:  c.Key,
			detail: fmt.Sprintf("%.1f%% of messages", float64(c.Count)*100/float64(all.TotalMessages)),
			count:  c.Count,
		})
	}
	return items, nil
}

func (d *Dashboard) report(it item, width int, noColor bool) string {
	s, msgs := d.selection(it.key)
	opts := d.Report
	opts.Width = width
	opts.NoColor = noColor
	opts.Title = d.Title
	if it.key != everyoneKey {
		opts.Title = d.Title + ": " + it.title
	}
	return render.Report(s, msgs, opts)
}

func (d *Dashboard) Preview(it item, _ string, width int) (string, int, error) {
	return d.report(it, width, false), -1, nil
}

func (d *Dashboard) Choose(it item) (string, error) {
	return d.report(it, 0, true), nil
}

func (d *Dashboard) Placeholder() string   { return "Filter participants..." }
func (d *Dashboard) EmptyQueryLists() bool { return true }

// MessageSearch lists full-text search hits and previews the conversation
// around the selected one.
type MessageSearch struct {
	DB       *index.DB
	Options  search.Options
	Location *time.Location
}

func (s *MessageSearch) Items(query string) ([]item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	opts := s.Options
	opts.Query = query
	results, err := search.Search(s.DB, opts)
	if err != nil {
		return nil, err
	}

	items := make([]item, 0, len(results))
	for _, r := range results {
		items = append(items, item{
			key:     r.ChatKey + ":" + r.MsgID,
			title:   r.Timestamp.In(s.location()).Format("2006-01-02 15:04") + "  " + r.Sender,
			detail:  r.Snippet,
			chatKey: r.ChatKey,
			msgID:   r.MsgID,
		})
	}
	return items, nil
}

func (s *MessageSearch) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

func (s *MessageSearch) Preview(it item, query string, width int) (string, int, error) {
	return render.RenderConversation(s.DB, it.chatKey, render.Options{
		HitMsgID: it.msgID,
		Context:  -1,
		Width:    width,
		Query:    query,
		Location: s.location(),
	})
}

func (s *MessageSearch) Choose(it item) (string, error) {
	row, err := s.DB.GetMessage(it.chatKey, it.msgID)
	if err != nil {
		return "", fmt.Errorf("get message: %w", err)
	}
	if row == nil {
		return "", fmt.Errorf("message not found: %s", it.msgID)
	}
	m := row.Message(s.location())
	return fmt.Sprintf("[%s] %s: %s", m.Timestamp.Format("2006/01/02, 15:04:05"), m.Sender, m.Content), nil
}

func (s *MessageSearch) Placeholder() string   { return "Search..." }
func (s *MessageSearch) EmptyQueryLists() bool { return false }
