// Package classify assigns free text a category, intent, severity and source.
//
// Every value is drawn from a closed vocabulary. The lexical classifier is a
// deterministic keyword matcher that is always available; the remote classifier
// asks a language model and falls back to the lexical result on any failure, so
// classification never fails.
package classify

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidValue indicates a literal outside its dimension's vocabulary.
var ErrInvalidValue = errors.New("invalid classification value")

// Category is the kind of content an input carries. Declaration order is the
// ranking order used by the category ordering.
type Category string

const (
	CategoryIssue    Category = "issue"
	CategoryEvent    Category = "event"
	CategoryLog      Category = "log"
	CategoryTask     Category = "task"
	CategoryIncident Category = "incident"
	CategoryNote     Category = "note"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryIssue,
	CategoryEvent,
	CategoryLog,
	CategoryTask,
	CategoryIncident,
	CategoryNote,
}

// Intent is what the author wants done with an input.
type Intent string

const (
	IntentTodo        Intent = "todo"
	IntentWarning     Intent = "warning"
	IntentDeadline    Intent = "deadline"
	IntentInformation Intent = "information"
	IntentQuestion    Intent = "question"
	IntentUnknown     Intent = "unknown"
)

// Intents lists every intent.
var Intents = []Intent{
	IntentTodo,
	IntentWarning,
	IntentDeadline,
	IntentInformation,
	IntentQuestion,
	IntentUnknown,
}

// Severity is the urgency of an input.
type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityUnknown Severity = "unknown"
)

// Severities lists every severity.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityUnknown}

// Source is who or what produced an input. It is never inferred from text.
type Source string

const (
	SourceHuman   Source = "human"
	SourceMachine Source = "machine"
	SourceVendor  Source = "vendor"
	SourceUnknown Source = "unknown"
)

// Sources lists every source.
var Sources = []Source{SourceHuman, SourceMachine, SourceVendor, SourceUnknown}

// Result is the classification of one text.
type Result struct {
	Category Category `json:"category"`
	Intent   Intent   `json:"intent"`
	Severity Severity `json:"severity"`
	Source   Source   `json:"source"`
}

func parse[T ~string](dimension, s string, values []T) (T, error) {
	if i := slices.Index(values, T(s)); i >= 0 {
		return values[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrInvalidValue, dimension, s)
}

// ParseCategory returns the category named s.
func ParseCategory(s string) (Category, error) { return parse("category", s, Categories) }

// ParseIntent returns the intent named s.
func ParseIntent(s string) (Intent, error) { return parse("intent", s, Intents) }

// ParseSeverity returns the severity named s.
func ParseSeverity(s string) (Severity, error) { return parse("severity", s, Severities) }

// ParseSource returns the source named s.
func ParseSource(s string) (Source, error) { return parse("source", s, Sources) }

// Rank returns the category's declaration index.
func (c Category) Rank() int {
	if i := slices.Index(Categories, c); i >= 0 {
		return i
	}
	return len(Categories)
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool { return slices.Contains(Categories, c) }

// Valid reports whether i is a declared intent.
func (i Intent) Valid() bool { return slices.Contains(Intents, i) }

// Valid reports whether s is a declared severity.
func (s Severity) Valid() bool { return slices.Contains(Severities, s) }

// Valid reports whether s is a declared source.
func (s Source) Valid() bool { return slices.Contains(Sources, s) }

// UnmarshalText decodes a category name, rejecting values outside the vocabulary.
func (c *Category) UnmarshalText(b []byte) (err error) {
	*c, err = ParseCategory(string(b))
	return err
}

// UnmarshalText decodes an intent name, rejecting values outside the vocabulary.
func (i *Intent) UnmarshalText(b []byte) (err error) {
	*i, err = ParseIntent(string(b))
	return err
}

// UnmarshalText decodes a severity name, rejecting values outside the vocabulary.
func (s *Severity) UnmarshalText(b []byte) (err error) {
	*s, err = ParseSeverity(string(b))
	return err
}

// UnmarshalText decodes a source name, rejecting values outside the vocabulary.
func (s *Source) UnmarshalText(b []byte) (err error) {
	*s, err = ParseSource(string(b))
	return err
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// CategoryValues returns the category literals in declaration order.
func CategoryValues() []string { return stringsOf(Categories) }

// IntentValues returns the intent literals.
func IntentValues() []string { return stringsOf(Intents) }

// SeverityValues returns the severity literals.
func SeverityValues() []string { return stringsOf(Severities) }

// SourceValues returns the source literals.
func SourceValues() []string { return stringsOf(Sources) }
