package inputs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/triage/internal/classify"
	"github.com/JaimeStill/triage/pkg/formatting"
	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/storage"
)

const (
	exportPrefix      = "exports"
	reclassifyWorkers = 4
)

type repo struct {
	store      Store
	classifier classify.Classifier
	blobs      storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an input System. blobs may be nil, which disables exports.
func New(
	store Store,
	classifier classify.Classifier,
	blobs storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		store:      store,
		classifier: classifier,
		blobs:      blobs,
		logger:     logger.With("system", "inputs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*Input, error) {
	if cmd.Text == "" {
		return nil, ErrInvalidText
	}

	in := Input{
		UserID: userID,
		Text:   cmd.Text,
		Status: StatusOpen,
	}
	in.apply(r.classifier.Classify(ctx, cmd.Text, nil))

	out, err := r.store.Insert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("insert input: %w", err)
	}

	r.logger.Info("input created", "id", out.ID, "category", out.Category, "severity", out.Severity)
	return &out, nil
}

func (r *repo) Find(ctx context.Context, userID, id uuid.UUID) (*Input, error) {
	in, err := r.store.FindActive(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *repo) List(ctx context.Context, userID uuid.UUID, order Order) ([]Input, error) {
	items, err := r.store.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Rank(items, order), nil
}

func (r *repo) Update(ctx context.Context, userID, id uuid.UUID, cmd UpdateCommand) (*Input, error) {
	if cmd.Text != nil && *cmd.Text == "" {
		return nil, ErrInvalidText
	}

	current, err := r.store.FindActive(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	out, err := r.store.Update(ctx, Merge(ctx, r.classifier, current, cmd))
	if err != nil {
		return nil, fmt.Errorf("update input: %w", err)
	}

	r.logger.Info("input updated", "id", out.ID, "reclassified", cmd.Text != nil)
	return &out, nil
}

func (r *repo) Delete(ctx context.Context, userID, id uuid.UUID) (*Input, error) {
	current, err := r.store.FindActive(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	out, err := r.store.SoftDelete(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("delete input: %w", err)
	}

	r.logger.Info("input deleted", "id", out.ID)
	return &out, nil
}

func (r *repo) Search(
	ctx context.Context,
	userID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Input], error) {
	page.Normalize(r.pagination)
	return r.store.Search(ctx, userID, page, filters)
}

func (r *repo) Reclassify(ctx context.Context, userID uuid.UUID) (*ReclassifyResult, error) {
	items, err := r.store.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	var reclassified, changed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reclassifyWorkers)

	for _, in := range items {
		g.Go(func() error {
			next := Merge(gctx, r.classifier, in, UpdateCommand{Text: &in.Text})
			reclassified.Add(1)

			if next.Result() == in.Result() {
				return nil
			}

			if _, err := r.store.Update(gctx, next); err != nil {
				return fmt.Errorf("update input %s: %w", in.ID, err)
			}
			changed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ReclassifyResult{
		Reclassified: int(reclassified.Load()),
		Changed:      int(changed.Load()),
	}

	r.logger.Info("inputs reclassified", "user_id", userID, "total", result.Reclassified, "changed", result.Changed)
	return result, nil
}

func (r *repo) Export(ctx context.Context, userID uuid.UUID, order Order) (*ExportResult, error) {
	if r.blobs == nil {
		return nil, ErrExportsDisabled
	}

	items, err := r.List(ctx, userID, order)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	name := time.Now().UTC().Format("20060102T150405.000Z") + ".json"
	key := exportKey(userID, name)

	if err := r.blobs.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	r.logger.Info("inputs exported", "key", key, "count", len(items), "size", formatting.FormatBytes(int64(len(data)), 1))

	return &ExportResult{
		Key:   key,
		Count: len(items),
		Size:  int64(len(data)),
		Order: order,
	}, nil
}

func (r *repo) Exports(ctx context.Context, userID uuid.UUID) ([]storage.Object, error) {
	if r.blobs == nil {
		return nil, ErrExportsDisabled
	}
	return r.blobs.List(ctx, exportKey(userID, ""))
}

func (r *repo) Download(ctx context.Context, userID uuid.UUID, name string) (*storage.Blob, error) {
	if r.blobs == nil {
		return nil, ErrExportsDisabled
	}

	key := exportKey(userID, name)
	if err := storage.ValidateKey(key); err != nil || path.Base(key) != name {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidKey, name)
	}

	return r.blobs.Download(ctx, key)
}

func exportKey(userID uuid.UUID, name string) string {
	return exportPrefix + "/" + userID.String() + "/" + name
}
