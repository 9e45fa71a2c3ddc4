package http

import (
	"net/http"

	"github.com/fwojciec/chatdoc"
)

type searchRequest struct {
	CURP string `json:"curp"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type messagesResponse struct {
	Messages []chatdoc.ChatMessage `json:"messages"`
}

type healthResponse struct {
	Status    string         `json:"status"`
	Directory directoryState `json:"directory"`
	Document  documentState  `json:"document"`
}

type directoryState struct {
	Entries int    `json:"entries"`
	Grammar string `json:"grammar"`
	Error   string `json:"error,omitempty"`
}

type documentState struct {
	Loaded      bool   `json:"loaded"`
	Source      string `json:"source,omitempty"`
	Pages       int    `json:"pages"`
	ContentHash string `json:"contentHash,omitempty"`
	Error       string `json:"error,omitempty"`
}

// indexData is the view model for the page template.
type indexData struct {
	Branding  Branding
	Messages  []chatdoc.ChatMessage
	Search    *chatdoc.SearchResult
	Query     string
	Document  documentState
	Directory directoryState
}

// search runs a lookup and records its outcome.
func (s *Server) search(r *http.Request, raw string) (chatdoc.SearchResult, error) {
	res, err := chatdoc.Search(r.Context(), s.Directory, s.Grammar, raw)
	if err != nil {
		return res, err
	}
	s.metrics.searchesTotal.WithLabelValues(string(res.Status)).Inc()
	s.Logger.Info("curp search", "curp", chatdoc.MaskCURP(res.CURP), "status", res.Status)
	return res, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Branding:  s.Branding,
		Messages:  s.Transcript.History(),
		Document:  s.documentState(),
		Directory: s.directoryState(),
	}

	if r.URL.Query().Has("curp") {
		data.Query = r.URL.Query().Get("curp")
		res, err := s.search(r, data.Query)
		if err != nil {
			s.Error(w, r, err)
			return
		}
		data.Search = &res
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.Logger.Error("render index", "err", err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	res, err := s.search(r, req.CURP)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}

	history, err := s.Chat.Ask(r.Context(), s.Transcript, req.Question)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.metrics.chatTurnsTotal.Inc()
	writeJSON(w, http.StatusOK, messagesResponse{Messages: history})
}

func (s *Server) handleChatForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
	if err := r.ParseForm(); err != nil {
		s.Error(w, r, chatdoc.Errorf(chatdoc.EINVALID, "invalid form body"))
		return
	}

	if _, err := s.Chat.Ask(r.Context(), s.Transcript, r.PostForm.Get("question")); err == nil {
		s.metrics.chatTurnsTotal.Inc()
	} else if chatdoc.ErrorCode(err) != chatdoc.EINVALID {
		s.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/#chat", http.StatusSeeOther)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messagesResponse{Messages: s.Transcript.History()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Transcript.Reset()
	writeJSON(w, http.StatusOK, messagesResponse{Messages: s.Transcript.History()})
}

func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	s.Transcript.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Directory: s.directoryState(),
		Document:  s.documentState(),
	}
	if resp.Directory.Error != "" || resp.Document.Error != "" {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) directoryState() directoryState {
	state := directoryState{Entries: s.DirectoryEntries, Grammar: s.Grammar.String()}
	if s.DirectoryErr != nil {
		state.Error = chatdoc.ErrorCode(s.DirectoryErr)
	}
	return state
}

func (s *Server) documentState() documentState {
	var state documentState
	if s.DocumentErr != nil {
		state.Error = chatdoc.ErrorMessage(s.DocumentErr)
	}
	if s.Chat == nil {
		return state
	}
	if doc := s.Chat.Document(); doc != nil {
		state.Loaded = s.Chat.HasDocument()
		state.Source = doc.Source
		state.Pages = len(doc.Pages)
		state.ContentHash = doc.ContentHash
	}
	return state
}
