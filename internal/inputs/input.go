// Package inputs implements the input domain: free-text snippets owned by a user,
// classified on write, ranked on read, and removed only by soft delete.
package inputs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/classify"
)

// Status is the workflow state of an input. Classification never sets it.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// Statuses lists every status.
var Statuses = []Status{StatusOpen, StatusDone}

// ParseStatus returns the status named s.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: status %q", classify.ErrInvalidValue, s)
}

func (s *Status) UnmarshalText(b []byte) (err error) {
	*s, err = ParseStatus(string(b))
	return err
}

// Input is one snippet submitted by a user. DeletedAt is nil while the input is active.
type Input struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Text      string            `json:"text"`
	Category  classify.Category `json:"category"`
	Intent    classify.Intent   `json:"intent"`
	Severity  classify.Severity `json:"severity"`
	Source    classify.Source   `json:"source"`
	Status    Status            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	DeletedAt *time.Time        `json:"deleted_at,omitempty"`
}

// Result returns the classification fields of the input.
func (i Input) Result() classify.Result {
	return classify.Result{
		Category: i.Category,
		Intent:   i.Intent,
		Severity: i.Severity,
		Source:   i.Source,
	}
}

func (i *Input) apply(r classify.Result) {
	i.Category = r.Category
	i.Intent = r.Intent
	i.Severity = r.Severity
	i.Source = r.Source
}

// CreateCommand carries the text of a new input.
type CreateCommand struct {
	Text string `json:"text"`
}

// UpdateCommand carries a partial update. Nil fields are left as they are.
type UpdateCommand struct {
	Text     *string            `json:"text,omitempty"`
	Category *classify.Category `json:"category,omitempty"`
	Intent   *classify.Intent   `json:"intent,omitempty"`
	Severity *classify.Severity `json:"severity,omitempty"`
	Source   *classify.Source   `json:"source,omitempty"`
	Status   *Status            `json:"status,omitempty"`
}

// DeleteResult acknowledges a soft delete.
type DeleteResult struct {
	Status string `json:"status"`
}

// ReclassifyResult reports a batch re-classification.
type ReclassifyResult struct {
	Reclassified int `json:"reclassified"`
	Changed      int `json:"changed"`
}

// ExportResult describes a dashboard snapshot written to blob storage.
type ExportResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
	Order Order  `json:"order"`
}
