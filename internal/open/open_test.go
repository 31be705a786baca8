package open

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/wastat/internal/index"
	"github.com/Zuo-Peng/wastat/internal/parse"
)

func TestEditorCommand(t *testing.T) {
	for _, test := range []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"vim", "+7", "/x/chat.txt"}},
		{"/usr/bin/nvim", []string{"/usr/bin/nvim", "+7", "/x/chat.txt"}},
		{"nano", []string{"nano", "+7", "/x/chat.txt"}},
		{"code", []string{"code", "--goto", "/x/chat.txt:7"}},
		{"less", []string{"less", "+7", "/x/chat.txt"}},
		{"gedit", []string{"gedit", "/x/chat.txt"}},
	} {
		cmd := editorCommand(test.editor, "/x/chat.txt", 7)
		assert.Equal(t, test.want, cmd.Args, test.editor)
	}
}

func TestOpenMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("[2024/01/01, 10:00:00] Alice: hi\n[2024/01/01, 10:01:00] Bob: yo\n"), 0o644))

	db, err := index.OpenMemory()
	require.NoError(t, err)
	defer db.Close()

	result, err := (&parse.Parser{Location: time.UTC}).ParseFile(path)
	require.NoError(t, err)
	require.NoError(t, index.LoadChat(db, path, "chat", result))

	// "true" accepts and ignores its arguments
	t.Setenv("EDITOR", "true")
	assert.NoError(t, OpenMessage(db, path, "msg-1"))

	assert.ErrorContains(t, OpenMessage(db, path, "msg-9"), "message not found")
	assert.ErrorContains(t, OpenMessage(db, "other", ""), "chat not found")

	require.NoError(t, os.Remove(path))
	assert.ErrorContains(t, OpenMessage(db, path, "msg-1"), "file not found")
}
