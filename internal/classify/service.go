package classify

import (
	"context"
	"log/slog"
)

// Classifier produces a Result for any text. Implementations never fail.
type Classifier interface {
	Classify(ctx context.Context, text string, hint *Source) Result
}

// New returns the remote classifier when backend is non-nil and the lexical
// classifier otherwise.
func New(cfg *Config, backend Backend, logger *slog.Logger) Classifier {
	if backend == nil {
		logger.Info("remote classifier not configured, using lexical")
		return lexical{}
	}
	return NewRemote(cfg, backend, logger)
}
