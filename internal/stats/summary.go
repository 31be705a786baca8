package stats

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// monthLayout keys ByMonth, e.g. "January 2024". Labels are always English.
const monthLayout = "January 2006"

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HourHistogram counts messages per hour of day; every hour 0..23 is present.
type HourHistogram [24]int

// MarshalJSON encodes the histogram as {"0": n, ..., "23": n}.
func (h HourHistogram) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for hour, n := range h {
		if hour > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`"` + strconv.Itoa(hour) + `":` + strconv.Itoa(n))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// WeekdayHistogram counts messages per weekday, indexed by time.Weekday
// (Sunday first).
type WeekdayHistogram [7]int

// Get returns the count for the named weekday ("Monday"), 0 if unknown.
func (w WeekdayHistogram) Get(name string) int {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return w[d]
		}
	}
	return 0
}

// MarshalJSON encodes the histogram as {"Sunday": n, ..., "Saturday": n}.
func (w WeekdayHistogram) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d > time.Sunday {
			b.WriteByte(',')
		}
		b.WriteString(`"` + d.String() + `":` + strconv.Itoa(w[d]))
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Summary is a snapshot of statistics over a message list. System notices
// are not counted anywhere.
type Summary struct {
	TotalMessages int `json:"totalMessages"`
	TotalMedia    int `json:"totalMedia"`
	TotalImages   int `json:"totalImages"`
	TotalVideos   int `json:"totalVideos"`
	TotalAudio    int `json:"totalAudio"`
	TotalStickers int `json:"totalStickers"`
	TotalGifs     int `json:"totalGifs"`

	Participants []string  `json:"participants"`
	DateRange    DateRange `json:"dateRange"`

	ByParticipant map[string]int   `json:"messagesByParticipant"`
	ByHour        HourHistogram    `json:"messagesByHour"`
	ByDay         WeekdayHistogram `json:"messagesByDay"`
	ByMonth       map[string]int   `json:"messagesByMonth"`

	MostActiveDay  string  `json:"mostActiveDay"`
	MostActiveHour int     `json:"mostActiveHour"`
	AveragePerDay  float64 `json:"averageMessagesPerDay"`
	LongestStreak  int     `json:"longestStreak"`

	WordCount  map[string]int `json:"wordCount"`
	EmojiCount map[string]int `json:"emojiCount"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Months returns ByMonth in chronological order.
func (s *Summary) Months() []MonthCount {
	type keyed struct {
		at time.Time
		MonthCount
	}
	var months []keyed
	for label, n := range s.ByMonth {
		at, _ := time.Parse(monthLayout, label)
		months = append(months, keyed{at: at, MonthCount: MonthCount{Month: label, Count: n}})
	}
	sort.Slice(months, func(i, j int) bool {
		if !months[i].at.Equal(months[j].at) {
			return months[i].at.Before(months[j].at)
		}
		return months[i].Month < months[j].Month
	})

	out := make([]MonthCount, len(months))
	for i, m := range months {
		out[i] = m.MonthCount
	}
	return out
}

// JSON returns the summary as indented JSON.
func (s *Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
