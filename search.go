package chatdoc

import "context"

// SearchStatus is the outcome of a directory search.
type SearchStatus string

// SearchStatus values.
const (
	SearchEmpty    SearchStatus = "empty"
	SearchInvalid  SearchStatus = "invalid"
	SearchNotFound SearchStatus = "not_found"
	SearchFound    SearchStatus = "found"
)

// SearchResult is what the search panel shows for a submitted code.
type SearchResult struct {
	Status  SearchStatus `json:"status"`
	CURP    string       `json:"curp,omitempty"`
	Email   string       `json:"email,omitempty"`
	Message string       `json:"message"`
}

// Search normalizes raw, validates it against grammar and looks it up in
// dirs. Malformed and absent codes are reported through the result status;
// only unexpected directory failures are returned as errors.
func Search(ctx context.Context, dirs DirectoryService, grammar Grammar, raw string) (SearchResult, error) {
	code := NormalizeCURP(raw)
	if code == "" {
		return SearchResult{Status: SearchEmpty, Message: "Ingresa un CURP"}, nil
	}
	if !grammar.Validate(code) {
		return SearchResult{Status: SearchInvalid, CURP: code, Message: "CURP inválido"}, nil
	}

	email, err := dirs.FindEmail(ctx, code)
	if ErrorCode(err) == ENOTFOUND {
		return SearchResult{Status: SearchNotFound, CURP: code, Message: "CURP no encontrado"}, nil
	} else if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Status: SearchFound, CURP: code, Email: email, Message: "Correo encontrado"}, nil
}
