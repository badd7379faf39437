// Package normalizer turns free-text search input into field match clauses.
//
// The rules depend on the trimmed query length (in characters):
//
//	0      no text condition, everything matches
//	1-2    exact full-value match on name, city, location
//	3      exact, whole-word or prefix match on name, city, location
//	4+     whole-word or prefix match on name, city, location, desc, address
//
// All matching is case-insensitive and the query is always escaped before it
// becomes part of a pattern.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field names a searchable listing column.
type Field string

const (
	FieldName        Field = "name"
	FieldCity        Field = "city"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
	FieldAddress     Field = "address"
)

// Kind is the comparison a clause performs.
type Kind int

const (
	// KindExact matches the whole field value.
	KindExact Kind = iota
	// KindWord matches the query as a whole word anywhere in the value.
	KindWord
	// KindPrefix matches values starting with the query.
	KindPrefix
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindWord:
		return "word"
	case KindPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

var (
	shortFields = []Field{FieldName, FieldCity, FieldLocation}
	longFields  = []Field{FieldName, FieldCity, FieldLocation, FieldDescription, FieldAddress}
)

// Clause is one field comparison.
type Clause struct {
	Field Field
	Kind  Kind
	Term  string
}

// Condition is the OR of its clauses. No clauses means match everything.
type Condition struct {
	Query   string
	Clauses []Clause
}

// MatchAll reports whether the condition places no constraint.
func (c Condition) MatchAll() bool {
	return len(c.Clauses) == 0
}

// Normalize builds the condition for a raw query.
func Normalize(raw string) Condition {
	term := strings.ToValidUTF8(strings.TrimSpace(raw), string(utf8.RuneError))
	cond := Condition{Query: term}

	var kinds []Kind
	var fields []Field
	switch n := utf8.RuneCountInString(term); {
	case n == 0:
		return cond
	case n <= 2:
		kinds, fields = []Kind{KindExact}, shortFields
	case n == 3:
		kinds, fields = []Kind{KindExact, KindWord, KindPrefix}, shortFields
	default:
		kinds, fields = []Kind{KindWord, KindPrefix}, longFields
	}

	for _, kind := range kinds {
		for _, field := range fields {
			cond.Clauses = append(cond.Clauses, Clause{Field: field, Kind: kind, Term: term})
		}
	}
	return cond
}

// Matches evaluates the condition in memory against a record. value returns
// the content of a field. Queries run in PostgreSQL; this mirrors them.
func (c Condition) Matches(value func(Field) string) bool {
	if c.MatchAll() {
		return true
	}
	for _, clause := range c.Clauses {
		re, err := regexp.Compile("(?i)" + clause.goPattern())
		if err != nil {
			continue
		}
		if re.MatchString(value(clause.Field)) {
			return true
		}
	}
	return false
}

// PostgresPattern renders the clause as a PostgreSQL ARE for use with ~*.
func (c Clause) PostgresPattern() string {
	return c.pattern(`\m`, `\M`)
}

// Go's \b only knows ASCII word characters, so the guards spell out the
// Unicode classes that \m and \M use.
func (c Clause) goPattern() string {
	return c.pattern(`(?:^|[^\p{L}\p{M}\p{N}_])`, `(?:$|[^\p{L}\p{M}\p{N}_])`)
}

// pattern assembles the anchored, escaped regex. Word boundaries are only
// placed next to word characters; a boundary beside punctuation could never match.
func (c Clause) pattern(wordStart, wordEnd string) string {
	quoted := regexp.QuoteMeta(c.Term)
	switch c.Kind {
	case KindExact:
		return "^" + quoted + "$"
	case KindPrefix:
		return "^" + quoted
	default:
		first, _ := utf8.DecodeRuneInString(c.Term)
		last, _ := utf8.DecodeLastRuneInString(c.Term)
		var b strings.Builder
		if isWordRune(first) {
			b.WriteString(wordStart)
		}
		b.WriteString(quoted)
		if isWordRune(last) {
			b.WriteString(wordEnd)
		}
		return b.String()
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}
