package index

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Zuo-Peng/wastat/internal/parse"
	"github.com/Zuo-Peng/wastat/internal/scan"
)

type Stats struct {
	Scanned  int
	Indexed  int
	Messages int
	Empty    int
	Errors   int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d indexed=%d messages=%d empty=%d errors=%d",
		s.Scanned, s.Indexed, s.Messages, s.Empty, s.Errors)
}

// IndexExports parses every file and loads it under its path as chat key.
// Files that fail to parse are logged and counted, not fatal.
func IndexExports(db *DB, p *parse.Parser, files []scan.FileInfo) Stats {
	var stats Stats
	stats.Scanned = len(files)

	for _, fi := range files {
		result, err := p.ParseFile(fi.Path)
		if err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("path", fi.Path).Msg("skip export")
			continue
		}
		if len(result.Messages) == 0 {
			stats.Empty++
			continue
		}

		if err := LoadChat(db, fi.Path, fi.Name, result); err != nil {
			stats.Errors++
			log.Warn().Err(err).Str("path", fi.Path).Msg("index export")
			continue
		}
		stats.Indexed++
		stats.Messages += len(result.Messages)
	}
	return stats
}

// LoadChat replaces whatever is stored under chatKey with result.
func LoadChat(db *DB, chatKey, name string, result *parse.ParseResult) error {
	if err := db.DeleteChat(chatKey); err != nil {
		return err
	}

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO chats (chat_key, name, file_path, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		chatKey,
		name,
		result.Meta.Path,
		len(result.Messages),
		result.Meta.Mtime.Unix(),
		result.Meta.Size,
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_key, seq, msg_id, ts, sender, type, media_file, content, is_system, line_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range result.Messages {
		isSystem := 0
		if m.IsSystem {
			isSystem = 1
		}
		_, err := stmt.Exec(
			chatKey,
			i,
			m.ID,
			m.Timestamp.UnixNano(),
			m.Sender,
			string(m.Type),
			m.MediaFile,
			m.Content,
			isSystem,
			m.Line,
		)
		if err != nil {
			return fmt.Errorf("insert message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}
