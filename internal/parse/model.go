package parse

import "time"

// MessageType classifies the body of a message.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypeImage   MessageType = "image"
	TypeAudio   MessageType = "audio"
	TypeVideo   MessageType = "video"
	TypeSticker MessageType = "sticker"
	TypeGIF     MessageType = "gif"
	TypeSystem  MessageType = "system"
	TypeDeleted MessageType = "deleted"
)

// IsMedia reports whether the type counts as a media attachment.
func (t MessageType) IsMedia() bool {
	switch t {
	case TypeImage, TypeAudio, TypeVideo, TypeSticker, TypeGIF:
		return true
	}
	return false
}

// SystemSender is the sender name given to synthetic notices.
const SystemSender = "System"

type Message struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Sender    string      `json:"sender"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	MediaFile string      `json:"mediaFile,omitempty"`
	IsSystem  bool        `json:"isSystemMessage"`
	Line      int         `json:"line"` // 1-based line of the header in the export
}

type FileMeta struct {
	Path  string
	Size  int64
	Mtime time.Time
	Lines int
}

type ParseResult struct {
	Meta     FileMeta
	Messages []Message
}
