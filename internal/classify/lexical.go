package classify

import (
	"context"
	"strings"
)

type rule[T any] struct {
	keywords []string
	value    T
}

// Keyword rules are evaluated in order; the first rule with any keyword
// contained in the lowercased text wins.
var (
	categoryRules = []rule[Category]{
		{[]string{"incident", "outage", "breach", "sev"}, CategoryIncident},
		{[]string{"error", "fail", "failure", "bug", "issue"}, CategoryIssue},
		{[]string{"todo", "action", "please", "fix", "call", "email", "ship"}, CategoryTask},
		{[]string{"log:", "trace", "stack", "timestamp"}, CategoryLog},
		{[]string{"meeting", "deploy", "release", "event"}, CategoryEvent},
	}

	intentRules = []rule[Intent]{
		{[]string{"?", "how to", "can we", "what is", "why"}, IntentQuestion},
		{[]string{"deadline", "due", "by eod", "by tomorrow", "by "}, IntentDeadline},
		{[]string{"warn", "warning", "risk", "attention"}, IntentWarning},
	}

	severityRules = []rule[Severity]{
		{[]string{"sev1", "p0", "critical", "urgent", "immediately", "outage"}, SeverityHigh},
		{[]string{"sev2", "p1", "major", "asap"}, SeverityMedium},
		{[]string{"minor", "low", "nice to have"}, SeverityLow},
	}
)

func match[T any](text string, rules []rule[T], fallback T) T {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.value
			}
		}
	}
	return fallback
}

// Lexical classifies text by substring keyword matching. It is total and
// deterministic. The source dimension echoes hint, or unknown when hint is nil.
func Lexical(text string, hint *Source) Result {
	t := asciiLower(text)

	category := match(t, categoryRules, CategoryNote)

	fallbackIntent := IntentInformation
	if category == CategoryTask {
		fallbackIntent = IntentTodo
	}

	source := SourceUnknown
	if hint != nil {
		source = *hint
	}

	return Result{
		Category: category,
		Intent:   match(t, intentRules, fallbackIntent),
		Severity: match(t, severityRules, SeverityUnknown),
		Source:   source,
	}
}

type lexical struct{}

func (lexical) Classify(_ context.Context, text string, hint *Source) Result {
	return Lexical(text, hint)
}

func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
