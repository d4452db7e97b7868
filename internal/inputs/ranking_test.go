package inputs_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/triage/internal/classify"
	"github.com/JaimeStill/triage/internal/inputs"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Minute)
}

func item(text string, sev classify.Severity, status inputs.Status, created int) inputs.Input {
	return inputs.Input{
		ID:        uuid.New(),
		Text:      text,
		Category:  classify.CategoryNote,
		Severity:  sev,
		Status:    status,
		CreatedAt: at(created),
	}
}

func texts(items []inputs.Input) []string {
	out := make([]string, len(items))
	for i, in := range items {
		out[i] = in.Text
	}
	return out
}

func TestRankDashboard(t *testing.T) {
	a := item("A", classify.SeverityHigh, inputs.StatusOpen, 3)
	b := item("B", classify.SeverityLow, inputs.StatusDone, 5)
	c := item("C", classify.SeverityHigh, inputs.StatusDone, 1)
	d := item("D", classify.SeverityLow, inputs.StatusOpen, 4)

	items := []inputs.Input{a, b, c, d}
	got := inputs.Rank(items, inputs.OrderDashboard)

	assert.Equal(t, []string{"A", "C", "D", "B"}, texts(got))
	assert.Equal(t, []string{"A", "B", "C", "D"}, texts(items), "input slice must not be reordered")
}

func TestRankDashboardBuckets(t *testing.T) {
	items := []inputs.Input{
		item("low-open-old", classify.SeverityLow, inputs.StatusOpen, 1),
		item("unknown-done-new", classify.SeverityUnknown, inputs.StatusDone, 9),
		item("high-done-new", classify.SeverityHigh, inputs.StatusDone, 8),
		item("medium-open-new", classify.SeverityMedium, inputs.StatusOpen, 7),
		item("high-open-old", classify.SeverityHigh, inputs.StatusOpen, 2),
	}

	got := inputs.Rank(items, inputs.OrderDashboard)
	assert.Equal(t, []string{
		"high-open-old",
		"high-done-new",
		"medium-open-new",
		"low-open-old",
		"unknown-done-new",
	}, texts(got))
}

func TestRankCategory(t *testing.T) {
	mk := func(text string, cat classify.Category, created int) inputs.Input {
		in := item(text, classify.SeverityUnknown, inputs.StatusOpen, created)
		in.Category = cat
		return in
	}

	items := []inputs.Input{
		mk("note", classify.CategoryNote, 9),
		mk("incident", classify.CategoryIncident, 1),
		mk("issue-old", classify.CategoryIssue, 2),
		mk("task", classify.CategoryTask, 5),
		mk("issue-new", classify.CategoryIssue, 6),
		mk("event", classify.CategoryEvent, 3),
		mk("log", classify.CategoryLog, 4),
	}

	got := inputs.Rank(items, inputs.OrderCategory)
	assert.Equal(t, []string{"issue-new", "issue-old", "event", "log", "task", "incident", "note"}, texts(got))
}

func TestRankCreatedAt(t *testing.T) {
	items := []inputs.Input{
		item("old", classify.SeverityHigh, inputs.StatusOpen, 1),
		item("new", classify.SeverityLow, inputs.StatusDone, 3),
		item("mid", classify.SeverityLow, inputs.StatusOpen, 2),
	}

	got := inputs.Rank(items, inputs.OrderCreatedAt)
	assert.Equal(t, []string{"new", "mid", "old"}, texts(got))
}

func TestRankStableOnTies(t *testing.T) {
	items := []inputs.Input{
		item("first", classify.SeverityLow, inputs.StatusOpen, 1),
		item("second", classify.SeverityLow, inputs.StatusOpen, 1),
		item("third", classify.SeverityLow, inputs.StatusOpen, 1),
	}

	for _, order := range inputs.Orders {
		got := inputs.Rank(items, order)
		assert.Equal(t, []string{"first", "second", "third"}, texts(got), order)
		assert.Equal(t, got, inputs.Rank(items, order))
	}
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, inputs.Rank(nil, inputs.OrderDashboard))
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in   string
		want inputs.Order
		err  bool
	}{
		{in: "", want: inputs.OrderDashboard},
		{in: "dashboard", want: inputs.OrderDashboard},
		{in: "category", want: inputs.OrderCategory},
		{in: "created_at", want: inputs.OrderCreatedAt},
		{in: "severity", err: true},
		{in: "Dashboard", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := inputs.ParseOrder(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, inputs.ErrInvalidOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
