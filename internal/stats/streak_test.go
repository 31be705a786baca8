package stats

import (
	"testing"
	"time"

	"github.com/Zuo-Peng/wastat/internal/parse"
)

func onDays(days ...int) []parse.Message {
	msgs := make([]parse.Message, 0, len(days))
	for i, d := range days {
		// vary the hour so same-day messages are not identical
		msgs = append(msgs, parse.Message{
			Sender:    "Alice",
			Timestamp: time.Date(2024, 3, d, (i*7)%24, 30, 0, 0, time.UTC),
			Type:      parse.TypeText,
		})
	}
	return msgs
}

// TestLongestStreak covers runs, gaps, duplicates and unsorted input.
func TestLongestStreak(t *testing.T) {
	for _, test := range []struct {
		name string
		msgs []parse.Message
		want int
	}{
		{"empty", nil, 0},
		{"single", onDays(5), 1},
		{"same day", onDays(5, 5, 5), 1},
		{"consecutive", onDays(1, 2, 3, 4, 5), 5},
		{"gap splits", onDays(1, 2, 3, 5, 6), 3},
		{"later run longer", onDays(1, 2, 4, 5, 6, 7), 4},
		{"unsorted with repeats", onDays(7, 3, 5, 4, 4, 6, 1), 5},
		{"month boundary", append(onDays(30, 31), parse.Message{
			Timestamp: time.Date(2024, 4, 1, 0, 5, 0, 0, time.UTC),
			Type:      parse.TypeText,
		}), 3},
		{"system ignored", append(onDays(1, 3), parse.Message{
			Timestamp: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Type:      parse.TypeSystem,
			IsSystem:  true,
		}), 1},
	} {
		if got := LongestStreak(test.msgs); got != test.want {
			t.Errorf("%s: LongestStreak() = %d, want %d", test.name, got, test.want)
		}
	}
}

func TestLongestStreakAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// clocks jump forward on 2024-03-31
	var msgs []parse.Message
	for d := 29; d <= 31; d++ {
		msgs = append(msgs, parse.Message{
			Timestamp: time.Date(2024, 3, d, 23, 30, 0, 0, loc),
			Type:      parse.TypeText,
		})
	}
	msgs = append(msgs, parse.Message{
		Timestamp: time.Date(2024, 4, 1, 0, 15, 0, 0, loc),
		Type:      parse.TypeText,
	})

	if got := LongestStreak(msgs); got != 4 {
		t.Errorf("LongestStreak() = %d, want 4", got)
	}
}
