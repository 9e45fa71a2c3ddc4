package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/chatdoc"
	main "github.com/fwojciec/chatdoc/cmd/chatdoc"
	"github.com/fwojciec/chatdoc/fernet"
	"github.com/fwojciec/chatdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sealed returns a fresh key and a token encrypting directory.
func sealed(t *testing.T, directory map[string]string) (key, token string) {
	t.Helper()

	key, err := fernet.GenerateKey()
	require.NoError(t, err)
	cipher, err := fernet.NewCipher(key)
	require.NoError(t, err)
	data, err := json.Marshal(directory)
	require.NoError(t, err)
	tok, err := cipher.Encrypt(data)
	require.NoError(t, err)
	return key, string(tok)
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and fails", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "serve")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "search")
		assert.Contains(t, stdout.String(), "seal")
	})

	t.Run("rejects unknown grammar", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--curp-grammar=lenient", "search", "X"}, stdout, stderr)

		require.Error(t, err)
	})
}

func TestMain_Run_Search(t *testing.T) {
	t.Parallel()

	t.Run("finds email in the encrypted directory", func(t *testing.T) {
		t.Parallel()

		key, token := sealed(t, map[string]string{"PEMJ920313HDFLRN01": "juan.perez@example.com"})
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"search", "--encryption-key", key, "--encrypted-data", token,
			"pemj920313hdflrn01", "GOMA850101HDFRRL09", "ABC",
		}, stdout, stderr)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "PEMJ920313HDFLRN01\tjuan.perez@example.com", lines[0])
		assert.Equal(t, "GOMA850101HDFRRL09\tCURP no encontrado", lines[1])
		assert.Equal(t, "ABC\tCURP inválido", lines[2])
		assert.NotContains(t, stderr.String(), key)
	})

	t.Run("reads token from directory file", func(t *testing.T) {
		t.Parallel()

		key, token := sealed(t, map[string]string{"PEMJ920313HDFLRN01": "juan.perez@example.com"})
		path := filepath.Join(t.TempDir(), "directory.token")
		require.NoError(t, os.WriteFile(path, []byte(token+"\n"), 0o600))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"search", "--encryption-key", key, "--directory-file", path, "PEMJ920313HDFLRN01",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "juan.perez@example.com")
	})

	t.Run("wrong key degrades to empty directory", func(t *testing.T) {
		t.Parallel()

		_, token := sealed(t, map[string]string{"PEMJ920313HDFLRN01": "juan.perez@example.com"})
		otherKey, err := fernet.GenerateKey()
		require.NoError(t, err)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err = main.NewMain().Run(context.Background(), []string{
			"search", "--encryption-key", otherKey, "--encrypted-data", token, "PEMJ920313HDFLRN01",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "directory unavailable (EDECRYPT)")
		assert.Contains(t, stdout.String(), "CURP no encontrado")
		assert.NotContains(t, stderr.String(), otherKey)
	})

	t.Run("uses injected decrypter", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Decrypter = &mock.Decrypter{
			DecryptFn: func(context.Context, []byte) ([]byte, error) {
				return []byte(`{"GOMA850101HDFRRL09": {"email": "ana@example.com"}}`), nil
			},
		}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"search", "--encrypted-data", "blob", "GOMA850101HDFRRL09"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "ana@example.com")
	})
}

func TestMain_Run_Seal(t *testing.T) {
	t.Parallel()

	t.Run("seals sample directory with generated key", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"seal"}, stdout, stderr)

		require.NoError(t, err)
		var key, token string
		for _, line := range strings.Split(stdout.String(), "\n") {
			if v, ok := strings.CutPrefix(line, "CHATDOC_ENCRYPTION_KEY="); ok {
				key = v
			}
			if v, ok := strings.CutPrefix(line, "CHATDOC_ENCRYPTED_DATA="); ok {
				token = v
			}
		}
		require.NotEmpty(t, key)
		require.NotEmpty(t, token)

		cipher, err := fernet.NewCipher(key)
		require.NoError(t, err)
		plaintext, err := cipher.Decrypt(context.Background(), []byte(token))
		require.NoError(t, err)
		entries, err := chatdoc.ParseDirectory(plaintext)
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})

	t.Run("writes token for input file", func(t *testing.T) {
		t.Parallel()

		key, err := fernet.GenerateKey()
		require.NoError(t, err)
		dir := t.TempDir()
		input := filepath.Join(dir, "directory.json")
		output := filepath.Join(dir, "directory.token")
		require.NoError(t, os.WriteFile(input, []byte(`{"PEMJ920313HDFLRN01": "juan.perez@example.com"}`), 0o600))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err = main.NewMain().Run(context.Background(), []string{"seal", input, "--key", key, "-o", output}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote")
		assert.NotContains(t, stdout.String(), key)

		stdout.Reset()
		err = main.NewMain().Run(context.Background(), []string{
			"search", "--encryption-key", key, "--directory-file", output, "PEMJ920313HDFLRN01",
		}, stdout, stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "juan.perez@example.com")
	})

	t.Run("rejects input that is not a directory", func(t *testing.T) {
		t.Parallel()

		input := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(input, []byte(`[1, 2, 3]`), 0o600))
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"seal", input}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, chatdoc.EFORMAT, chatdoc.ErrorCode(err))
		assert.Empty(t, stdout.String())
	})
}
