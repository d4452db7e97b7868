package inputs_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/inputs"
	"github.com/JaimeStill/triage/pkg/lifecycle"
	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is an in-process inputs.Store with a deterministic clock.
type memoryStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]inputs.Input
	tick  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[uuid.UUID]inputs.Input{}}
}

func (s *memoryStore) Insert(_ context.Context, in inputs.Input) (inputs.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	in.ID = uuid.New()
	in.CreatedAt = at(s.tick)
	s.items[in.ID] = in
	return in, nil
}

func (s *memoryStore) FindActive(_ context.Context, userID, id uuid.UUID) (inputs.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.items[id]
	if !ok || in.UserID != userID || in.DeletedAt != nil {
		return inputs.Input{}, inputs.ErrNotFound
	}
	return in, nil
}

func (s *memoryStore) active(userID uuid.UUID) []inputs.Input {
	var out []inputs.Input
	for _, in := range s.items {
		if in.UserID == userID && in.DeletedAt == nil {
			out = append(out, in)
		}
	}
	slices.SortFunc(out, func(a, b inputs.Input) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func (s *memoryStore) ListActive(_ context.Context, userID uuid.UUID) ([]inputs.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active(userID), nil
}

func (s *memoryStore) Update(_ context.Context, in inputs.Input) (inputs.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[in.ID]
	if !ok || stored.UserID != in.UserID || stored.DeletedAt != nil {
		return inputs.Input{}, inputs.ErrNotFound
	}
	in.CreatedAt = stored.CreatedAt
	s.items[in.ID] = in
	return in, nil
}

func (s *memoryStore) SoftDelete(_ context.Context, in inputs.Input) (inputs.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items[in.ID]
	if !ok || stored.UserID != in.UserID || stored.DeletedAt != nil {
		return inputs.Input{}, inputs.ErrNotFound
	}
	now := time.Now()
	stored.DeletedAt = &now
	s.items[in.ID] = stored
	return stored, nil
}

func (s *memoryStore) Search(
	_ context.Context,
	userID uuid.UUID,
	page pagination.PageRequest,
	filters inputs.Filters,
) (*pagination.PageResult[inputs.Input], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []inputs.Input
	for _, in := range s.active(userID) {
		if page.Search != nil && !strings.Contains(strings.ToLower(in.Text), strings.ToLower(*page.Search)) {
			continue
		}
		if filters.Match(in) {
			matched = append(matched, in)
		}
	}

	start := min((page.Page-1)*page.PageSize, len(matched))
	end := min(start+page.PageSize, len(matched))

	result := pagination.NewPageResult(matched[start:end], len(matched), page.Page, page.PageSize)
	return &result, nil
}

// memoryBlobs is an in-process storage.System.
type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: map[string][]byte{}}
}

func (m *memoryBlobs) Start(*lifecycle.Coordinator) error { return nil }

func (m *memoryBlobs) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memoryBlobs) Download(_ context.Context, key string) (*storage.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Blob{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   "application/json",
		ContentLength: int64(len(data)),
	}, nil
}

func (m *memoryBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *memoryBlobs) List(_ context.Context, prefix string) ([]storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []storage.Object
	for key, data := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.Object{Key: key, Size: int64(len(data))})
		}
	}
	slices.SortFunc(out, func(a, b storage.Object) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}
