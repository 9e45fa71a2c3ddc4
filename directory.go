package chatdoc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sort"
)

// DirectoryEntry associates an identity code with an email address.
type DirectoryEntry struct {
	Code  string `json:"curp"`
	Email string `json:"email"`
}

// DirectoryService answers exact-match lookups by identity code.
type DirectoryService interface {
	// FindEmail returns the email address registered for code.
	// Returns ENOTFOUND if code is malformed or not in the directory.
	FindEmail(ctx context.Context, code string) (string, error)
}

// Ensure Directory implements DirectoryService at compile time.
var _ DirectoryService = (*Directory)(nil)

// Directory is an immutable in-memory mapping from identity code to email.
// Keys are stored upper-cased. The zero value is an empty directory.
type Directory struct {
	grammar Grammar
	emails  map[string]string
}

// DirectoryReport describes entries dropped or overwritten while building a
// directory.
type DirectoryReport struct {
	// Skipped holds codes rejected by the grammar.
	Skipped []string

	// Duplicates holds codes that appeared more than once; the last
	// occurrence won.
	Duplicates []string
}

// NewDirectory builds a directory from entries in order. Codes are
// upper-cased; malformed codes are skipped and repeated codes are
// overwritten by later entries.
func NewDirectory(entries []DirectoryEntry, grammar Grammar) (*Directory, DirectoryReport) {
	var report DirectoryReport
	d := &Directory{
		grammar: grammar,
		emails:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		code := NormalizeCURP(e.Code)
		if !grammar.Validate(code) {
			report.Skipped = append(report.Skipped, code)
			continue
		}
		if _, ok := d.emails[code]; ok {
			report.Duplicates = append(report.Duplicates, code)
		}
		d.emails[code] = e.Email
	}
	return d, report
}

// Find returns the email for code using a case-insensitive exact match.
// Malformed codes are reported as not found.
func (d *Directory) Find(code string) (string, bool) {
	if d == nil || d.emails == nil {
		return "", false
	}
	code = NormalizeCURP(code)
	if !d.grammar.Validate(code) {
		return "", false
	}
	email, ok := d.emails[code]
	return email, ok
}

// FindEmail implements DirectoryService.
func (d *Directory) FindEmail(_ context.Context, code string) (string, error) {
	email, ok := d.Find(code)
	if !ok {
		return "", Errorf(ENOTFOUND, "CURP not found")
	}
	return email, nil
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.emails)
}

// Entries returns all entries sorted by code.
func (d *Directory) Entries() []DirectoryEntry {
	if d == nil {
		return nil
	}
	entries := make([]DirectoryEntry, 0, len(d.emails))
	for code, email := range d.emails {
		entries = append(entries, DirectoryEntry{Code: code, Email: email})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}

// rawField is one top-level member of the decrypted document, in order.
type rawField struct {
	key   string
	value json.RawMessage
}

// ParseDirectory decodes decrypted directory data. Two shapes are accepted:
// a flat object of code to email strings, or an object of code to records
// carrying an "email" string field. Entries are returned in document order.
// Returns EFORMAT for anything else, including an empty object.
func ParseDirectory(data []byte) ([]DirectoryEntry, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, Errorf(EFORMAT, "directory data is empty")
	}

	if entries, ok := parseFlat(fields); ok {
		return entries, nil
	}
	if entries, ok := parseRecords(fields); ok {
		return entries, nil
	}
	return nil, Errorf(EFORMAT, "directory data has an unrecognized shape")
}

// decodeObject walks a top-level JSON object preserving member order so that
// duplicate keys resolve to the last occurrence.
func decodeObject(data []byte) ([]rawField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, Errorf(EFORMAT, "directory data is not valid JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, Errorf(EFORMAT, "directory data is not a JSON object")
	}

	var fields []rawField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, Errorf(EFORMAT, "directory data is not valid JSON: %v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, Errorf(EFORMAT, "directory data has a non-string key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, Errorf(EFORMAT, "directory data is not valid JSON: %v", err)
		}
		fields = append(fields, rawField{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, Errorf(EFORMAT, "directory data is not valid JSON: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, Errorf(EFORMAT, "directory data has trailing content")
	}
	return fields, nil
}

func parseFlat(fields []rawField) ([]DirectoryEntry, bool) {
	entries := make([]DirectoryEntry, 0, len(fields))
	for _, f := range fields {
		email, ok := decodeString(f.value)
		if !ok {
			return nil, false
		}
		entries = append(entries, DirectoryEntry{Code: f.key, Email: email})
	}
	return entries, true
}

func parseRecords(fields []rawField) ([]DirectoryEntry, bool) {
	entries := make([]DirectoryEntry, 0, len(fields))
	for _, f := range fields {
		var record map[string]json.RawMessage
		if err := json.Unmarshal(f.value, &record); err != nil || record == nil {
			return nil, false
		}
		raw, ok := record["email"]
		if !ok {
			return nil, false
		}
		email, ok := decodeString(raw)
		if !ok {
			return nil, false
		}
		entries = append(entries, DirectoryEntry{Code: f.key, Email: email})
	}
	return entries, true
}

// decodeString decodes raw as a JSON string. JSON null is not a string.
func decodeString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
