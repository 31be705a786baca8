package stats

import (
	"math"
	"time"

	"github.com/Zuo-Peng/wastat/internal/parse"
)

// Aggregator computes summaries. Now supplies the date range of an empty
// summary; it defaults to time.Now.
type Aggregator struct {
	Now func() time.Time
}

// Aggregate summarises msgs using the wall clock for empty input.
func Aggregate(msgs []parse.Message) Summary {
	return (&Aggregator{}).Aggregate(msgs)
}

func (a *Aggregator) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Aggregate builds a fresh Summary from msgs. msgs is not modified, so
// callers can re-run it cheaply over any filtered slice.
func (a *Aggregator) Aggregate(msgs []parse.Message) Summary {
	chat := make([]parse.Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.IsSystem {
			chat = append(chat, m)
		}
	}

	s := Summary{
		Participants:  []string{},
		ByParticipant: map[string]int{},
		ByMonth:       map[string]int{},
		WordCount:     map[string]int{},
		EmojiCount:    map[string]int{},
	}
	if len(chat) == 0 {
		now := a.now()
		s.DateRange = DateRange{Start: now, End: now}
		return s
	}

	s.TotalMessages = len(chat)
	s.DateRange = DateRange{Start: chat[0].Timestamp, End: chat[0].Timestamp}

	for _, m := range chat {
		switch m.Type {
		case parse.TypeImage:
			s.TotalImages++
		case parse.TypeVideo:
			s.TotalVideos++
		case parse.TypeAudio:
			s.TotalAudio++
		case parse.TypeSticker:
			s.TotalStickers++
		case parse.TypeGIF:
			s.TotalGifs++
		}
		if m.Type.IsMedia() {
			s.TotalMedia++
		}

		if _, ok := s.ByParticipant[m.Sender]; !ok {
			s.Participants = append(s.Participants, m.Sender)
		}
		s.ByParticipant[m.Sender]++

		if m.Timestamp.Before(s.DateRange.Start) {
			s.DateRange.Start = m.Timestamp
		}
		if m.Timestamp.After(s.DateRange.End) {
			s.DateRange.End = m.Timestamp
		}

		s.ByHour[m.Timestamp.Hour()]++
		s.ByDay[m.Timestamp.Weekday()]++
		s.ByMonth[m.Timestamp.Format(monthLayout)]++

		if m.Type == parse.TypeText {
			countWords(m.Content, s.WordCount)
			countEmoji(m.Content, s.EmojiCount)
		}
	}

	s.MostActiveDay = busiestDay(s.ByDay).String()
	s.MostActiveHour = busiestHour(s.ByHour)
	s.AveragePerDay = float64(s.TotalMessages) / spanDays(s.DateRange)
	s.LongestStreak = LongestStreak(chat)

	return s
}

// busiestDay returns the first weekday, from Sunday, with the highest count.
func busiestDay(h WeekdayHistogram) time.Weekday {
	best := time.Sunday
	for d := time.Monday; d <= time.Saturday; d++ {
		if h[d] > h[best] {
			best = d
		}
	}
	return best
}

// busiestHour returns the first hour, from 0, with the highest count.
func busiestHour(h HourHistogram) int {
	best := 0
	for hour := 1; hour < len(h); hour++ {
		if h[hour] > h[best] {
			best = hour
		}
	}
	return best
}

// spanDays is the date range length in days rounded up, never below 1.
func spanDays(r DateRange) float64 {
	days := math.Ceil(r.End.Sub(r.Start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
