package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/auth"
	"github.com/JaimeStill/triage/pkg/query"
	"github.com/JaimeStill/triage/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Handler(authn *auth.Authenticator) *Handler {
	return NewHandler(r, authn, r.logger)
}

func (r *repo) Register(ctx context.Context, creds Credentials) (*User, error) {
	email, err := NormalizeEmail(creds.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(creds.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return nil, err
	}

	u, err := r.insert(ctx, email, &hash)
	if err != nil {
		return nil, err
	}

	r.logger.Info("user registered", "id", u.ID)
	return u, nil
}

func (r *repo) Login(ctx context.Context, creds Credentials) (*User, error) {
	email, err := NormalizeEmail(creds.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	u, err := r.findBy(ctx, "email", email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if u.PasswordHash == nil || !CheckPassword(*u.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *repo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := r.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *repo) Provision(ctx context.Context, email string) (uuid.UUID, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return uuid.Nil, err
	}

	u, err := r.findBy(ctx, "email", email)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return uuid.Nil, err
	}

	u, err = r.insert(ctx, email, nil)
	if errors.Is(err, ErrDuplicate) {
		u, err = r.findBy(ctx, "email", email)
	}
	if err != nil {
		return uuid.Nil, err
	}

	r.logger.Info("user provisioned", "id", u.ID)
	return u.ID, nil
}

func (r *repo) findBy(ctx context.Context, field string, value any) (*User, error) {
	q, args := query.NewBuilder(projection).WhereEquals(field, value).Build()

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, dbErrors.MapError(err)
	}
	return &u, nil
}

func (r *repo) insert(ctx context.Context, email string, hash *string) (*User, error) {
	q := `
		INSERT INTO users(id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + returning

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), email, hash}, scanUser)
	})
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", dbErrors.MapError(err))
	}
	return &u, nil
}
