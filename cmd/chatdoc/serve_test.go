package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/chatdoc"
	main "github.com/fwojciec/chatdoc/cmd/chatdoc"
	"github.com/fwojciec/chatdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveDeps(t *testing.T, plaintext string, decryptErr error) *main.Dependencies {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	decrypter := &mock.Decrypter{
		DecryptFn: func(context.Context, []byte) ([]byte, error) {
			return []byte(plaintext), decryptErr
		},
	}
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
		Logger:  logger,
		Grammar: chatdoc.GrammarStrict,
		Loader:  chatdoc.NewDirectoryLoader(decrypter, []byte("blob"), chatdoc.GrammarStrict, logger),
		Documents: &mock.DocumentReader{
			ReadDocumentFn: func(_ context.Context, source string) (*chatdoc.Document, error) {
				return chatdoc.NewDocument(source, "Manual", []string{"El trámite dura 3 días."}), nil
			},
		},
		Generator: &mock.Generator{
			GenerateFn: func(_ context.Context, prompt string) (string, error) {
				if strings.Contains(prompt, "El trámite dura 3 días.") {
					return "Dura 3 días.", nil
				}
				return "No sé.", nil
			},
		},
	}
}

func newServeCmd() *main.ServeCmd {
	cmd := &main.ServeCmd{DB: ":memory:", Greeting: "¡Hola!"}
	cmd.Document = "manual.pdf"
	return cmd
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeCmd_NewServer(t *testing.T) {
	t.Parallel()

	t.Run("serves lookups from the loaded directory", func(t *testing.T) {
		t.Parallel()

		deps := serveDeps(t, `{"PEMJ920313HDFLRN01": "juan.perez@example.com"}`, nil)
		s, db, err := newServeCmd().NewServer(deps)
		require.NoError(t, err)
		defer db.Close()

		rec := post(t, s, "/api/search", `{"curp":"pemj920313hdflrn01"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "juan.perez@example.com")
	})

	t.Run("answers questions about the document", func(t *testing.T) {
		t.Parallel()

		deps := serveDeps(t, `{"PEMJ920313HDFLRN01": "juan.perez@example.com"}`, nil)
		s, db, err := newServeCmd().NewServer(deps)
		require.NoError(t, err)
		defer db.Close()

		rec := post(t, s, "/api/chat", `{"question":"¿Cuánto dura?"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Dura 3 días.")
	})

	t.Run("degrades when the directory cannot be decrypted", func(t *testing.T) {
		t.Parallel()

		deps := serveDeps(t, "", chatdoc.Errorf(chatdoc.EDECRYPT, "invalid token"))
		s, db, err := newServeCmd().NewServer(deps)
		require.NoError(t, err)
		defer db.Close()

		rec := post(t, s, "/api/search", `{"curp":"PEMJ920313HDFLRN01"}`)
		assert.Contains(t, rec.Body.String(), `"status":"not_found"`)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		health := httptest.NewRecorder()
		s.ServeHTTP(health, req)
		assert.Contains(t, health.Body.String(), `"error":"EDECRYPT"`)
	})

	t.Run("degrades when the document cannot be read", func(t *testing.T) {
		t.Parallel()

		deps := serveDeps(t, `{"PEMJ920313HDFLRN01": "juan.perez@example.com"}`, nil)
		deps.Documents = &mock.DocumentReader{
			ReadDocumentFn: func(context.Context, string) (*chatdoc.Document, error) {
				return nil, chatdoc.Errorf(chatdoc.EDOCUMENT, "file not found")
			},
		}
		s, db, err := newServeCmd().NewServer(deps)
		require.NoError(t, err)
		defer db.Close()

		rec := post(t, s, "/api/chat", `{"question":"¿Cuánto dura?"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No hay documento cargado")
	})
}

// cancelOnWrite cancels a context once the server reports its address.
type cancelOnWrite struct {
	bytes.Buffer
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	defer w.cancel()
	return w.Buffer.Write(p)
}

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	deps := serveDeps(t, `{"PEMJ920313HDFLRN01": "juan.perez@example.com"}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stdout := &cancelOnWrite{cancel: cancel}
	deps.Ctx = ctx
	deps.Stdout = stdout
	cmd := newServeCmd()
	cmd.Addr = "127.0.0.1:0"

	err := cmd.Run(deps)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Serving on http://127.0.0.1:")
}
