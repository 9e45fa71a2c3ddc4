package http

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/chatdoc"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	chatdoc.ECONFLICT:    http.StatusConflict,
	chatdoc.EINVALID:     http.StatusBadRequest,
	chatdoc.ENOTFOUND:    http.StatusNotFound,
	chatdoc.EINTERNAL:    http.StatusInternalServerError,
	chatdoc.EDECRYPT:     http.StatusServiceUnavailable,
	chatdoc.EFORMAT:      http.StatusServiceUnavailable,
	chatdoc.EDOCUMENT:    http.StatusServiceUnavailable,
	chatdoc.EUNAVAILABLE: http.StatusBadGateway,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes err as JSON. Internal errors are logged and their details
// hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := chatdoc.ErrorCode(err), chatdoc.ErrorMessage(err)
	if code == chatdoc.EINTERNAL {
		s.Logger.Error("http error", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return chatdoc.Errorf(chatdoc.EINVALID, "invalid JSON body")
	}
	return nil
}
