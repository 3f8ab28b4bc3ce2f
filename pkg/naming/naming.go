package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const RawTablePrefix = "_airbyte_raw_"

// Case is the letter case a dialect folds unquoted identifiers to.
type Case int

const (
	CasePreserve Case = iota
	CaseLower
	CaseUpper
)

// Transformer normalizes names into identifiers made of [A-Za-z0-9_] that do
// not start with a digit. It implements coreinterfaces.NamingTransformer.
type Transformer struct {
	Case Case
	// MaxLength is the longest identifier in bytes, 0 means unbounded.
	MaxLength int
}

// Identifier normalizes a schema or table name.
func (t *Transformer) Identifier(name string) string {
	s := toAlphanumericAndUnderscore(name)
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	switch t.Case {
	case CaseLower:
		s = strings.ToLower(s)
	case CaseUpper:
		s = strings.ToUpper(s)
	}
	if t.MaxLength > 0 && len(s) > t.MaxLength {
		s = s[:t.MaxLength]
	}
	return s
}

// RawTableName returns the raw table name for a stream.
func (t *Transformer) RawTableName(streamName string) string {
	return t.Identifier(RawTablePrefix + streamName)
}

// toAlphanumericAndUnderscore strips accents, then replaces every rune outside
// [A-Za-z0-9_] with '_'.
func toAlphanumericAndUnderscore(name string) string {
	// a chained transformer keeps state, so build one per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	var sb strings.Builder
	sb.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
