package inputs

import (
	"github.com/JaimeStill/triage/internal/classify"
	"github.com/JaimeStill/triage/pkg/query"
	"github.com/JaimeStill/triage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "inputs", "i").
	Project("id", "id").
	Project("user_id", "user_id").
	Project("text", "text").
	Project("category", "category").
	Project("intent", "intent").
	Project("severity", "severity").
	Project("source", "source").
	Project("status", "status").
	Project("created_at", "created_at").
	Project("deleted_at", "deleted_at")

const returning = "id, user_id, text, category, intent, severity, source, status, created_at, deleted_at"

var defaultSort = []query.SortField{
	{Field: "created_at", Descending: true},
}

// Filters narrows a search. Nil fields are ignored; set fields match exactly.
type Filters struct {
	Category *classify.Category `json:"category,omitempty"`
	Intent   *classify.Intent   `json:"intent,omitempty"`
	Severity *classify.Severity `json:"severity,omitempty"`
	Source   *classify.Source   `json:"source,omitempty"`
	Status   *Status            `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("category", f.Category).
		WhereEquals("intent", f.Intent).
		WhereEquals("severity", f.Severity).
		WhereEquals("source", f.Source).
		WhereEquals("status", f.Status)
}

// Match reports whether in satisfies every set filter.
func (f Filters) Match(in Input) bool {
	return (f.Category == nil || *f.Category == in.Category) &&
		(f.Intent == nil || *f.Intent == in.Intent) &&
		(f.Severity == nil || *f.Severity == in.Severity) &&
		(f.Source == nil || *f.Source == in.Source) &&
		(f.Status == nil || *f.Status == in.Status)
}

var dbErrors = repository.Errors{
	NotFound: ErrNotFound,
	Invalid:  ErrInvalidInput,
}

func scanInput(s repository.Scanner) (Input, error) {
	var in Input
	err := s.Scan(
		&in.ID,
		&in.UserID,
		&in.Text,
		&in.Category,
		&in.Intent,
		&in.Severity,
		&in.Source,
		&in.Status,
		&in.CreatedAt,
		&in.DeletedAt,
	)
	return in, err
}
