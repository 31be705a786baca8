package index

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/wastat/internal/parse"
)

const schema = `
PRAGMA temp_store = MEMORY;

CREATE TABLE IF NOT EXISTS chats (
    chat_key      TEXT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    file_path     TEXT NOT NULL,
    message_count INTEGER NOT NULL DEFAULT 0,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    chat_key    TEXT NOT NULL,
    seq         INTEGER NOT NULL,
    msg_id      TEXT NOT NULL,
    ts          INTEGER NOT NULL,
    sender      TEXT NOT NULL,
    type        TEXT NOT NULL DEFAULT 'text',
    media_file  TEXT NOT NULL DEFAULT '',
    content     TEXT NOT NULL,
    is_system   INTEGER NOT NULL DEFAULT 0,
    line_number INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (chat_key, seq)
);

CREATE INDEX IF NOT EXISTS messages_sender ON messages(chat_key, sender);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    content,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, content) VALUES (new.rowid, new.content);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
END;
`

// DB is a per-invocation message store. It lives in memory only and is
// gone once closed.
type DB struct {
	db *sql.DB
}

func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// FTS5Available reports whether the sqlite build supports FTS5.
func FTS5Available() error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("CREATE VIRTUAL TABLE t USING fts5(x)")
	return err
}

func (d *DB) DeleteChat(chatKey string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_key = ?", chatKey); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM chats WHERE chat_key = ?", chatKey); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) ChatCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM chats").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

type ChatRow struct {
	ChatKey      string
	Name         string
	FilePath     string
	MessageCount int
}

func (d *DB) GetChat(chatKey string) (*ChatRow, error) {
	var c ChatRow
	err := d.db.QueryRow(
		"SELECT chat_key, name, file_path, message_count FROM chats WHERE chat_key = ?",
		chatKey,
	).Scan(&c.ChatKey, &c.Name, &c.FilePath, &c.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type MessageRow struct {
	ChatKey    string
	Seq        int
	MsgID      string
	Timestamp  time.Time
	Sender     string
	Type       parse.MessageType
	MediaFile  string
	Content    string
	IsSystem   bool
	LineNumber int
}

// Message converts the row back to a parsed message in loc.
func (r MessageRow) Message(loc *time.Location) parse.Message {
	ts := r.Timestamp
	if loc != nil {
		ts = ts.In(loc)
	}
	return parse.Message{
		ID:        r.MsgID,
		Timestamp: ts,
		Sender:    r.Sender,
		Content:   r.Content,
		Type:      r.Type,
		MediaFile: r.MediaFile,
		IsSystem:  r.IsSystem,
		Line:      r.LineNumber,
	}
}

const messageColumns = "chat_key, seq, msg_id, ts, sender, type, media_file, content, is_system, line_number"

func scanMessage(rows *sql.Rows) (MessageRow, error) {
	var (
		m        MessageRow
		ts       int64
		typ      string
		isSystem int
	)
	err := rows.Scan(&m.ChatKey, &m.Seq, &m.MsgID, &ts, &m.Sender, &typ, &m.MediaFile, &m.Content, &isSystem, &m.LineNumber)
	m.Timestamp = time.Unix(0, ts)
	m.Type = parse.MessageType(typ)
	m.IsSystem = isSystem != 0
	return m, err
}

// GetMessages returns the messages of a chat in export order.
func (d *DB) GetMessages(chatKey string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? ORDER BY seq",
		chatKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []MessageRow
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessage looks a message up by its id within a chat.
func (d *DB) GetMessage(chatKey, msgID string) (*MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? AND msg_id = ? LIMIT 1",
		chatKey, msgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	m, err := scanMessage(rows)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SenderCounts returns how many messages each sender wrote in a chat,
// excluding system notices.
func (d *DB) SenderCounts(chatKey string) (map[string]int, error) {
	rows, err := d.db.Query(
		"SELECT sender, COUNT(*) FROM messages WHERE chat_key = ? AND is_system = 0 GROUP BY sender",
		chatKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			sender string
			n      int
		)
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, err
		}
		counts[sender] = n
	}
	return counts, rows.Err()
}

// GetMessagesWindow returns the messages around hitMsgID, context on each
// side. startPos is the number of messages before the window and totalCount
// the number of messages in the chat. Without a hit the whole chat is returned.
func (d *DB) GetMessagesWindow(chatKey, hitMsgID string, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE chat_key = ?", chatKey,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	hitPos := -1
	if hitMsgID != "" {
		err = d.db.QueryRow(`
			SELECT pos FROM (
				SELECT msg_id, ROW_NUMBER() OVER (ORDER BY seq) - 1 AS pos
				FROM messages WHERE chat_key = ?
			) WHERE msg_id = ?`,
			chatKey, hitMsgID,
		).Scan(&hitPos)
		if err == sql.ErrNoRows {
			hitPos = -1
			err = nil
		} else if err != nil {
			return nil, -1, 0, 0, err
		}
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = max(hitPos-context, 0)
		endPos := min(hitPos+context+1, totalCount)
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE chat_key = ? ORDER BY seq LIMIT ? OFFSET ?",
		chatKey, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	hitIdx = -1
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, -1, 0, 0, err
		}
		if hitMsgID != "" && m.MsgID == hitMsgID {
			hitIdx = len(msgs)
		}
		msgs = append(msgs, m)
	}
	return msgs, hitIdx, startPos, totalCount, rows.Err()
}
