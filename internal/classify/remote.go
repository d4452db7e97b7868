package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/triage/pkg/formatting"
)

// ErrRateLimited indicates no call slot was available before the classification timeout.
var ErrRateLimited = errors.New("remote classifier rate limit exceeded")

// Backend completes a prompt against a language model.
type Backend interface {
	Complete(ctx context.Context, instruction, payload string) (string, error)
}

// Instruction is the system instruction sent with every remote classification.
var Instruction = fmt.Sprintf(
	"You classify unstructured operational inputs into structured fields. "+
		"Return ONLY valid JSON (no markdown) with keys: category, intent, severity, source. "+
		"Allowed category: %s. "+
		"Allowed intent: %s. "+
		"Allowed severity: %s. "+
		"Allowed source: %s.",
	strings.Join(CategoryValues(), ","),
	strings.Join(IntentValues(), ","),
	strings.Join(SeverityValues(), ","),
	strings.Join(SourceValues(), ","),
)

type payload struct {
	Text       string  `json:"text"`
	SourceHint *Source `json:"source_hint"`
}

// Remote classifies through a Backend. Any backend, timeout, rate or decoding
// failure yields the Lexical result for the same text and hint.
type Remote struct {
	backend Backend
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

// NewRemote creates a Remote classifier bounded by cfg's timeout and rate limit.
func NewRemote(cfg *Config, backend Backend, logger *slog.Logger) *Remote {
	return &Remote{
		backend: backend,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("classifier", "remote"),
	}
}

func (r *Remote) Classify(ctx context.Context, text string, hint *Source) Result {
	result, err := r.classify(ctx, text, hint)
	if err != nil {
		r.logger.Warn("remote classification failed, using lexical", "error", err)
		return Lexical(text, hint)
	}
	return result
}

func (r *Remote) classify(ctx context.Context, text string, hint *Source) (Result, error) {
	body, err := json.Marshal(payload{Text: text, SourceHint: hint})
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRateLimited, err)
	}

	content, err := r.backend.Complete(ctx, Instruction, string(body))
	if err != nil {
		return Result{}, fmt.Errorf("complete: %w", err)
	}

	fields, err := formatting.Parse[map[string]any](content)
	if err != nil {
		return Result{}, err
	}
	if fields == nil {
		return Result{}, fmt.Errorf("%w: response is not a JSON object", ErrInvalidValue)
	}

	return decode(fields, hint)
}

func decode(fields map[string]any, hint *Source) (Result, error) {
	defaultSource := SourceUnknown
	if hint != nil {
		defaultSource = *hint
	}

	var (
		res  Result
		err  error
		errs []error
	)

	res.Category, err = field(fields, "category", CategoryNote, ParseCategory)
	errs = append(errs, err)
	res.Intent, err = field(fields, "intent", IntentUnknown, ParseIntent)
	errs = append(errs, err)
	res.Severity, err = field(fields, "severity", SeverityUnknown, ParseSeverity)
	errs = append(errs, err)
	res.Source, err = field(fields, "source", defaultSource, ParseSource)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Result{}, err
	}
	return res, nil
}

// field returns fallback when key is absent. A present value must be a string
// naming a member of the vocabulary; null counts as present.
func field[T ~string](fields map[string]any, key string, fallback T, parse func(string) (T, error)) (T, error) {
	raw, ok := fields[key]
	if !ok {
		return fallback, nil
	}

	s, ok := raw.(string)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s is %T, not a string", ErrInvalidValue, key, raw)
	}

	return parse(s)
}
