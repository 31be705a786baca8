package parse

import (
	"io"
	"os"
	"strings"
)

const maxFileSize = 256 * 1024 * 1024 // 256MB

const utf8BOM = "\uFEFF"

// ParseFile reads an export from disk and parses it with p.
// Encoding clean-up (BOM, CRLF) happens here so the parser only ever sees
// "\n"-separated text.
func (p *Parser) ParseFile(filePath string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize))
	if err != nil {
		return nil, err
	}

	content := Normalize(string(data))
	return &ParseResult{
		Meta: FileMeta{
			Path:  filePath,
			Size:  info.Size(),
			Mtime: info.ModTime(),
			Lines: strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1,
		},
		Messages: p.Parse(content),
	}, nil
}

// ParseFile parses an export with the local time zone.
func ParseFile(filePath string) (*ParseResult, error) {
	return (&Parser{}).ParseFile(filePath)
}

// Normalize strips a leading byte order mark and converts CRLF/CR line
// endings to LF.
func Normalize(content string) string {
	content = strings.TrimPrefix(content, utf8BOM)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}
