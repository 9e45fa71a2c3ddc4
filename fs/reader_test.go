package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/chatdoc"
	"github.com/fwojciec/chatdoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTextReader_ReadDocument(t *testing.T) {
	t.Parallel()

	t.Run("splits pages on form feed", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "manual.txt", "página uno\fpágina dos")

		doc, err := fs.NewTextReader().ReadDocument(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, []string{"página uno", "página dos"}, doc.Pages)
	})

	t.Run("keeps blank pages as placeholders", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "manual.txt", "uno\f \fTres")

		doc, err := fs.NewTextReader().ReadDocument(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, []string{"uno", "<Página 2 sin texto>", "Tres"}, doc.Pages)
	})

	t.Run("reads frontmatter title", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "guia.md", "---\ntitle: \"Guía de trámites\"\nsource: interna\n---\n\n# Trámites\n\nTexto.")

		doc, err := fs.NewTextReader().ReadDocument(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "Guía de trámites", doc.Title)
		assert.Equal(t, []string{"# Trámites\n\nTexto."}, doc.Pages)
	})

	t.Run("normalizes line endings", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "dos.txt", "a\r\nb")

		doc, err := fs.NewTextReader().ReadDocument(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "a\nb", doc.Text())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewTextReader().ReadDocument(context.Background(), "/nonexistent/manual.txt")

		require.Error(t, err)
		assert.Equal(t, chatdoc.EDOCUMENT, chatdoc.ErrorCode(err))
	})
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("writes and replaces content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "blob.txt")
		require.NoError(t, fs.WriteFile(path, []byte("first"), 0600))
		require.NoError(t, fs.WriteFile(path, []byte("second"), 0600))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, fs.WriteFile(filepath.Join(dir, "blob.txt"), []byte("x"), 0644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		t.Parallel()

		err := fs.WriteFile("/nonexistent/dir/blob.txt", []byte("x"), 0644)

		require.Error(t, err)
	})
}
