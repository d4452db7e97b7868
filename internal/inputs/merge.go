package inputs

import (
	"context"

	"github.com/JaimeStill/triage/internal/classify"
)

// Merge returns current with cmd applied.
//
// When cmd carries text the input is re-classified, hinted by the explicit source
// or else the current one, and explicit overrides are laid over the fresh result.
// Without text only the explicit overrides change. Status is applied whenever present.
func Merge(ctx context.Context, c classify.Classifier, current Input, cmd UpdateCommand) Input {
	next := current

	if cmd.Text != nil {
		hint := cmd.Source
		if hint == nil {
			hint = &current.Source
		}
		next.Text = *cmd.Text
		next.apply(c.Classify(ctx, *cmd.Text, hint))
	}

	patch(&next.Category, cmd.Category)
	patch(&next.Intent, cmd.Intent)
	patch(&next.Severity, cmd.Severity)
	patch(&next.Source, cmd.Source)
	patch(&next.Status, cmd.Status)

	return next
}

func patch[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
