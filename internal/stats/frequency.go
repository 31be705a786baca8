package stats

import (
	"sort"
	"strings"
	"unicode"
)

// minWordLen is the shortest token counted as a word.
const minWordLen = 3

// emojiRanges are the blocks scanned for emoji.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // misc symbols
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1}, // regional indicators
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // symbols & pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport & map
	},
}

// countWords lower-cases content, blanks out everything that is not an
// ASCII word character or whitespace, and counts tokens of 3+ characters.
func countWords(content string, counts map[string]int) {
	cleaned := strings.Map(func(r rune) rune {
		if isWordChar(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(content))

	for _, word := range strings.Fields(cleaned) {
		if len(word) >= minWordLen {
			counts[word]++
		}
	}
}

func isWordChar(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// countEmoji counts every code point of content that falls in emojiRanges.
func countEmoji(content string, counts map[string]int) {
	for _, r := range content {
		if unicode.Is(emojiRanges, r) {
			counts[string(r)]++
		}
	}
}

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Top returns the n most frequent entries of counts, highest first and ties
// in key order. n <= 0 returns all entries.
func Top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for k, c := range counts {
		out = append(out, Count{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
