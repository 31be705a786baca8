package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/wastat/internal/parse"
)

// AllParticipants selects every sender.
const AllParticipants = "all"

type Options struct {
	Participant string              // "" or "all" = everyone
	Sender      string              // exact sender, "all" included; "" = no filter
	Since       time.Time           // zero = no lower bound
	Until       time.Time           // zero = no upper bound
	Types       []parse.MessageType // empty = every type
}

// IsZero reports whether opts keeps every message.
func (o Options) IsZero() bool {
	return o.allParticipants() && o.Sender == "" && o.Since.IsZero() && o.Until.IsZero() && len(o.Types) == 0
}

func (o Options) allParticipants() bool {
	return o.Participant == "" || o.Participant == AllParticipants
}

// Match reports whether m passes every filter in o. Selecting a participant
// drops system notices, since their sender is never a participant. Date
// bounds skip system notices: their timestamp is the parse time, not a
// moment of the chat.
func (o Options) Match(m parse.Message) bool {
	if !o.allParticipants() && m.Sender != o.Participant {
		return false
	}
	if o.Sender != "" && m.Sender != o.Sender {
		return false
	}
	if !m.IsSystem {
		if !o.Since.IsZero() && m.Timestamp.Before(o.Since) {
			return false
		}
		if !o.Until.IsZero() && m.Timestamp.After(o.Until) {
			return false
		}
	}
	if len(o.Types) > 0 {
		for _, t := range o.Types {
			if m.Type == t {
				return true
			}
		}
		return false
	}
	return true
}

// Apply returns the messages of msgs matching opts, in their original order.
// msgs itself is left untouched.
func Apply(msgs []parse.Message, opts Options) []parse.Message {
	if opts.IsZero() {
		return msgs
	}
	out := make([]parse.Message, 0, len(msgs))
	for _, m := range msgs {
		if opts.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// ParseDate parses a YYYY-MM-DD date in loc. With endOfDay the result is
// the last nanosecond of that day, so it can serve as an inclusive Until.
func ParseDate(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, nil
}

// ParseTypes parses a comma-separated list of message types.
func ParseTypes(s string) ([]parse.MessageType, error) {
	var types []parse.MessageType
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		t := parse.MessageType(part)
		switch t {
		case parse.TypeText, parse.TypeImage, parse.TypeAudio, parse.TypeVideo,
			parse.TypeSticker, parse.TypeGIF, parse.TypeSystem, parse.TypeDeleted:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("unknown message type: %s", part)
		}
	}
	return types, nil
}
