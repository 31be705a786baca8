package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/stats"
)

type ReportOptions struct {
	Title        string
	TopN         int
	HeatmapDays  int
	LengthBucket int
	Width        int       // total columns; bars shrink to fit
	Now          time.Time // end of the heatmap; zero = time.Now()
	NoColor      bool
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.TopN <= 0 {
		o.TopN = 10
	}
	if o.HeatmapDays <= 0 {
		o.HeatmapDays = 30
	}
	if o.LengthBucket <= 0 {
		o.LengthBucket = 50
	}
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

const (
	barRune      = "█"
	maxLabelCols = 20
	dateLayout   = "2006-01-02"
)

type row struct {
	label string
	count int
	note  string
}

type reportWriter struct {
	b     strings.Builder
	opts  ReportOptions
	color bool
}

func (w *reportWriter) paint(color, s string) string {
	if !w.color {
		return s
	}
	return color + s + colorReset
}

func (w *reportWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *reportWriter) heading(title string) {
	w.b.WriteByte('\n')
	w.line("%s", w.paint(colorBold, "-- "+title+" --"))
}

// bars renders one horizontal bar per row, scaled to the largest count.
func (w *reportWriter) bars(rows []row) {
	labelW, maxCount := 0, 0
	for _, r := range rows {
		labelW = max(labelW, runewidth.StringWidth(r.label))
		maxCount = max(maxCount, r.count)
	}
	labelW = min(labelW, maxLabelCols)
	countW := len(fmt.Sprint(maxCount))
	barW := max(w.opts.Width-labelW-countW-16, 5)

	for _, r := range rows {
		n := 0
		if maxCount > 0 {
			n = r.count * barW / maxCount
		}
		if n == 0 && r.count > 0 {
			n = 1
		}
		label := runewidth.FillRight(runewidth.Truncate(r.label, labelW, "…"), labelW)
		line := fmt.Sprintf("%s %s %*d", label, w.paint(colorMedia, strings.Repeat(barRune, n)), countW, r.count)
		if r.note != "" {
			line += " " + w.paint(colorDim, r.note)
		}
		w.line("%s", line)
	}
}

// Report renders a summary as plain text. msgs is the list the summary was
// computed from; it feeds the length distribution and the heatmap.
func Report(s stats.Summary, msgs []parse.Message, opts ReportOptions) string {
	opts = opts.withDefaults()
	w := &reportWriter{opts: opts, color: !opts.NoColor}

	if opts.Title != "" {
		w.line("%s", w.paint(colorSender, "== "+opts.Title+" =="))
	}
	if s.TotalMessages == 0 {
		w.line("No messages.")
		return w.b.String()
	}

	w.overview(s)

	w.heading("Participants")
	var people []row
	top := stats.Top(s.ByParticipant, 0)
	for _, c := range top {
		people = append(people, row{
			label: c.Key,
			count: c.Count,
			note:  fmt.Sprintf("(%.0f%%)", share(c.Count, top[0].Count)),
		})
	}
	w.bars(people)

	w.heading("Messages by hour")
	var hours []row
	for h, n := range s.ByHour {
		hours = append(hours, row{label: fmt.Sprintf("%02d:00", h), count: n})
	}
	w.bars(hours)

	w.heading("Messages by weekday")
	var days []row
	for d, n := range s.ByDay {
		days = append(days, row{label: time.Weekday(d).String(), count: n})
	}
	w.bars(days)

	w.heading("Messages by month")
	var months []row
	for _, m := range s.Months() {
		months = append(months, row{label: m.Month, count: m.Count})
	}
	w.bars(months)

	if words := stats.Top(s.WordCount, opts.TopN); len(words) > 0 {
		w.heading(fmt.Sprintf("Top %d words", opts.TopN))
		w.bars(countRows(words))
	}
	if emoji := stats.Top(s.EmojiCount, opts.TopN); len(emoji) > 0 {
		w.heading(fmt.Sprintf("Top %d emoji", opts.TopN))
		w.bars(countRows(emoji))
	}

	if buckets := stats.LengthBuckets(msgs, opts.LengthBucket); len(buckets) > 0 {
		w.heading("Message length")
		var rows []row
		for _, b := range buckets {
			rows = append(rows, row{label: b.Label, count: b.Count})
		}
		w.bars(rows)
	}

	w.heading(fmt.Sprintf("Last %d days", opts.HeatmapDays))
	var heat []row
	for _, d := range stats.Heatmap(msgs, opts.HeatmapDays, opts.Now) {
		heat = append(heat, row{label: d.Date, count: d.Count})
	}
	w.bars(heat)

	return w.b.String()
}

func (w *reportWriter) overview(s stats.Summary) {
	field := func(name, value string) {
		w.line("%s %s", w.paint(colorDim, runewidth.FillRight(name, 16)), value)
	}

	field("Messages", fmt.Sprintf("%d (%.1f per day)", s.TotalMessages, s.AveragePerDay))
	field("Media", fmt.Sprintf("%d  images %d, videos %d, audio %d, stickers %d, gifs %d",
		s.TotalMedia, s.TotalImages, s.TotalVideos, s.TotalAudio, s.TotalStickers, s.TotalGifs))
	field("Participants", fmt.Sprint(len(s.Participants)))
	field("Date range", s.DateRange.Start.Format(dateLayout)+" to "+s.DateRange.End.Format(dateLayout))
	field("Most active", fmt.Sprintf("%s, %02d:00", s.MostActiveDay, s.MostActiveHour))
	field("Longest streak", pluralDays(s.LongestStreak))
}

func countRows(counts []stats.Count) []row {
	rows := make([]row, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, row{label: c.Key, count: c.Count})
	}
	return rows
}

func share(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) * 100 / float64(of)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
