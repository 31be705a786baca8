package stats

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/Zuo-Peng/wastat/internal/parse"
)

type LengthBucket struct {
	Label string `json:"range"`
	Min   int    `json:"min"`
	Count int    `json:"count"`
}

// LengthBuckets groups text messages by content length (in characters)
// into buckets of the given width, smallest first. Empty buckets are omitted.
func LengthBuckets(msgs []parse.Message, width int) []LengthBucket {
	if width <= 0 {
		width = 50
	}
	counts := map[int]int{}
	for _, m := range msgs {
		if m.Type != parse.TypeText {
			continue
		}
		lo := utf8.RuneCountInString(m.Content) / width * width
		counts[lo]++
	}

	out := make([]LengthBucket, 0, len(counts))
	for lo, n := range counts {
		out = append(out, LengthBucket{
			Label: fmt.Sprintf("%d-%d chars", lo, lo+width-1),
			Min:   lo,
			Count: n,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Min < out[j].Min })
	return out
}

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Heatmap counts non-system messages for each of the `days` calendar dates
// ending on now's date, oldest first. Days without messages are zero.
func Heatmap(msgs []parse.Message, days int, now time.Time) []DayCount {
	if days <= 0 {
		return nil
	}
	perDay := map[string]int{}
	for _, m := range msgs {
		if m.IsSystem {
			continue
		}
		perDay[m.Timestamp.In(now.Location()).Format(time.DateOnly)]++
	}

	y, mo, d := now.Date()
	out := make([]DayCount, days)
	for i := range out {
		date := time.Date(y, mo, d-(days-1-i), 0, 0, 0, 0, now.Location()).Format(time.DateOnly)
		out[i] = DayCount{Date: date, Count: perDay[date]}
	}
	return out
}
