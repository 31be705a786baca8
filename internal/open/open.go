package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/wastat/internal/index"
)

// OpenMessage opens the export stored under chatKey in $EDITOR at the
// source line of msgID. An empty msgID opens the file at its first line.
func OpenMessage(db *index.DB, chatKey, msgID string) error {
	chat, err := db.GetChat(chatKey)
	if err != nil {
		return fmt.Errorf("get chat: %w", err)
	}
	if chat == nil {
		return fmt.Errorf("chat not found: %s", chatKey)
	}

	filePath := chat.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if msgID != "" {
		m, err := db.GetMessage(chatKey, msgID)
		if err != nil {
			return fmt.Errorf("get message: %w", err)
		}
		if m == nil {
			return fmt.Errorf("message not found: %s", msgID)
		}
		lineNum = m.LineNumber
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// editorCommand builds the command that opens filePath at lineNum for the
// editors that support jumping to a line.
func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"),
		strings.Contains(editor, "nano"), strings.Contains(editor, "emacs"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}
