package chatdoc

import (
	"regexp"
	"strings"
)

// CURPLength is the fixed length of a CURP.
const CURPLength = 18

// Grammar selects which CURP pattern a code is checked against.
type Grammar int

const (
	// GrammarStrict requires the final character to be a digit (check digit).
	GrammarStrict Grammar = iota

	// GrammarLoose accepts any letter or digit in the last two positions.
	// Some older directories were loaded with this pattern; it is only used
	// when explicitly configured.
	GrammarLoose
)

var (
	strictCURP = regexp.MustCompile(`^[A-Z]{4}[0-9]{6}[HM][A-Z]{5}[A-Z0-9][0-9]$`)
	looseCURP  = regexp.MustCompile(`^[A-Z]{4}[0-9]{6}[HM][A-Z]{5}[A-Z0-9]{2}$`)
)

// ParseGrammar returns the grammar named by s ("strict" or "loose").
func ParseGrammar(s string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return GrammarStrict, nil
	case "loose":
		return GrammarLoose, nil
	default:
		return GrammarStrict, Errorf(EINVALID, "unknown CURP grammar %q", s)
	}
}

// String returns the configuration name of the grammar.
func (g Grammar) String() string {
	if g == GrammarLoose {
		return "loose"
	}
	return "strict"
}

// Validate reports whether code is a well-formed CURP under g.
// The code is not normalized; callers upper-case it first.
func (g Grammar) Validate(code string) bool {
	if len(code) != CURPLength {
		return false
	}
	if g == GrammarLoose {
		return looseCURP.MatchString(code)
	}
	return strictCURP.MatchString(code)
}

// ValidateCURP reports whether code is a well-formed CURP under GrammarStrict.
func ValidateCURP(code string) bool {
	return GrammarStrict.Validate(code)
}

// NormalizeCURP trims surrounding whitespace and upper-cases code.
func NormalizeCURP(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MaskCURP hides everything but the first four characters of code so it can
// be written to logs.
func MaskCURP(code string) string {
	r := []rune(code)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-4)
}
