package parse

import (
	"regexp"
	"strings"
)

var attachedRe = regexp.MustCompile(`<attached: ([^>]+)>`)

// omittedMarkers are checked in order; the first hit decides the type.
var omittedMarkers = []struct {
	marker string
	typ    MessageType
}{
	{"image omitted", TypeImage},
	{"audio omitted", TypeAudio},
	{"video omitted", TypeVideo},
	{"sticker omitted", TypeSticker},
	{"GIF omitted", TypeGIF},
	{"This message was deleted", TypeDeleted},
}

// Classify infers a message type from the first line of its content and,
// for "<attached: NAME>" markers, returns NAME as the media file.
// Anything unrecognised is text.
func Classify(content string) (MessageType, string) {
	for _, om := range omittedMarkers {
		if strings.Contains(content, om.marker) {
			return om.typ, ""
		}
	}

	if !strings.Contains(content, "<attached:") {
		return TypeText, ""
	}
	match := attachedRe.FindStringSubmatch(content)
	if match == nil {
		return TypeText, ""
	}
	mediaFile := match[1]
	return attachmentType(mediaFile), mediaFile
}

// attachmentType guesses the media type from an attachment file name.
// Unknown names (documents, contacts, ...) stay text.
func attachmentType(name string) MessageType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "audio") || strings.HasSuffix(lower, ".opus"):
		return TypeAudio
	case strings.Contains(lower, "video") || strings.HasSuffix(lower, ".mp4"):
		return TypeVideo
	case strings.Contains(lower, "sticker") || strings.HasSuffix(lower, ".webp"):
		return TypeSticker
	case strings.Contains(lower, "photo") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return TypeImage
	case strings.Contains(lower, "gif"):
		return TypeGIF
	}
	return TypeText
}
