package stats

import (
	"sort"
	"time"

	"github.com/Zuo-Peng/wastat/internal/parse"
)

// LongestStreak returns the longest run of consecutive calendar days that
// each hold at least one non-system message.
func LongestStreak(msgs []parse.Message) int {
	days := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		if !m.IsSystem {
			days = append(days, civilDay(m.Timestamp))
		}
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	longest, current := 0, 1
	for i := 1; i < len(days); i++ {
		switch gap := days[i] - days[i-1]; {
		case gap == 1:
			current++
		case gap > 1:
			longest = max(longest, current)
			current = 1
		}
	}
	return max(longest, current)
}

// civilDay numbers the calendar date of t (in t's own location), ignoring
// the time of day and any DST shifts.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
