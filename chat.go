package chatdoc

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NoDocumentMessage is the assistant reply when no document is loaded.
const NoDocumentMessage = "⚠️ No hay documento cargado. Solo está disponible la búsqueda de CURP."

// ChatService answers questions about the document and records each turn in
// a transcript.
type ChatService struct {
	generator    Generator
	document     *Document
	instructions string

	// TokenCounter, if set, is used to log the size of each prompt.
	TokenCounter TokenCounter

	// Logger receives token counts and failures. Defaults to discarding.
	Logger *slog.Logger

	// mu serializes turns so only one model call is in flight.
	mu sync.Mutex
}

// NewChatService creates a new ChatService. A nil or empty document puts
// the service in the "no document loaded" state.
func NewChatService(generator Generator, document *Document, instructions string) *ChatService {
	return &ChatService{
		generator:    generator,
		document:     document,
		instructions: instructions,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// HasDocument reports whether a document with text is loaded.
func (s *ChatService) HasDocument() bool {
	return s.document != nil && len(s.document.Pages) > 0
}

// Document returns the loaded document, or nil.
func (s *ChatService) Document() *Document {
	return s.document
}

// Ask appends question to t, obtains an answer and appends it, then returns
// the updated history. Model failures become an inline assistant message so
// the conversation stays usable. Returns EINVALID for an empty question, in
// which case t is not modified.
func (s *ChatService) Ask(ctx context.Context, t *Transcript, question string) ([]ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, Errorf(EINVALID, "question required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.Append(RoleUser, question)
	t.Append(RoleAssistant, s.answer(ctx, question))
	return t.History(), nil
}

func (s *ChatService) answer(ctx context.Context, question string) string {
	if !s.HasDocument() {
		return NoDocumentMessage
	}
	if s.generator == nil {
		return "⚠️ Error: el modelo no está configurado"
	}

	prompt := BuildPrompt(s.document.Text(), question, s.instructions)
	if s.TokenCounter != nil {
		if n, err := s.TokenCounter.CountTokens(ctx, prompt); err != nil {
			s.Logger.Debug("token count failed", "err", err)
		} else {
			s.Logger.Debug("prompt tokens", "tokens", n)
		}
	}

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.Logger.Error("model request failed", "code", ErrorCode(err), "err", ErrorMessage(err))
		return "⚠️ Error: " + ErrorMessage(err)
	}
	return answer
}
