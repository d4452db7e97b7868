package inputs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/query"
	"github.com/JaimeStill/triage/pkg/repository"
)

// Store persists inputs. Every read is scoped to one user's active inputs, so a
// missing, deleted or foreign input is indistinguishable and yields ErrNotFound.
type Store interface {
	// Insert assigns the ID and CreatedAt of in.
	Insert(ctx context.Context, in Input) (Input, error)
	FindActive(ctx context.Context, userID, id uuid.UUID) (Input, error)
	// ListActive returns inputs ordered by created_at descending, then id ascending.
	ListActive(ctx context.Context, userID uuid.UUID) ([]Input, error)
	Update(ctx context.Context, in Input) (Input, error)
	SoftDelete(ctx context.Context, in Input) (Input, error)
	Search(
		ctx context.Context,
		userID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Input], error)
}

type store struct {
	db *sql.DB
}

// NewStore creates a PostgreSQL Store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) active(userID uuid.UUID) *query.Builder {
	return query.
		NewBuilder(projection, defaultSort...).
		TieBreak("id").
		WhereEquals("user_id", userID).
		WhereNull("deleted_at")
}

func (s *store) Insert(ctx context.Context, in Input) (Input, error) {
	q := `
		INSERT INTO inputs(id, user_id, text, category, intent, severity, source, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + returning

	args := []any{
		uuid.New(),
		in.UserID,
		in.Text,
		string(in.Category),
		string(in.Intent),
		string(in.Severity),
		string(in.Source),
		string(in.Status),
	}

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Input, error) {
		return repository.QueryOne(ctx, tx, q, args, scanInput)
	})
	if err != nil {
		return Input{}, dbErrors.MapError(err)
	}
	return out, nil
}

func (s *store) FindActive(ctx context.Context, userID, id uuid.UUID) (Input, error) {
	q, args := s.active(userID).WhereEquals("id", id).Build()

	in, err := repository.QueryOne(ctx, s.db, q, args, scanInput)
	if err != nil {
		return Input{}, dbErrors.MapError(err)
	}
	return in, nil
}

func (s *store) ListActive(ctx context.Context, userID uuid.UUID) ([]Input, error) {
	q, args := s.active(userID).Build()

	items, err := repository.QueryMany(ctx, s.db, q, args, scanInput)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}
	return items, nil
}

func (s *store) Update(ctx context.Context, in Input) (Input, error) {
	q := `
		UPDATE inputs
		SET text = $3, category = $4, intent = $5, severity = $6, source = $7, status = $8
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + returning

	args := []any{
		in.ID,
		in.UserID,
		in.Text,
		string(in.Category),
		string(in.Intent),
		string(in.Severity),
		string(in.Source),
		string(in.Status),
	}

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Input, error) {
		return repository.QueryOne(ctx, tx, q, args, scanInput)
	})
	if err != nil {
		return Input{}, dbErrors.MapError(err)
	}
	return out, nil
}

func (s *store) SoftDelete(ctx context.Context, in Input) (Input, error) {
	q := `
		UPDATE inputs
		SET deleted_at = now()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		RETURNING ` + returning

	out, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Input, error) {
		return repository.QueryOne(ctx, tx, q, []any{in.ID, in.UserID}, scanInput)
	})
	if err != nil {
		return Input{}, dbErrors.MapError(err)
	}
	return out, nil
}

func (s *store) Search(
	ctx context.Context,
	userID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Input], error) {
	qb := s.active(userID).WhereSearch(page.Search, "text")
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, s.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count inputs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanInput)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
