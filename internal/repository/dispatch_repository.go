package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"donor-finder/internal/domain"
)

const dispatchSchema = `
	CREATE TABLE IF NOT EXISTS notification_dispatches (
		id              UUID PRIMARY KEY,
		subject         TEXT NOT NULL,
		recipient_count INTEGER NOT NULL,
		status          TEXT NOT NULL,
		error           TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type DispatchRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, dispatch *domain.Dispatch) error
	ListRecent(ctx context.Context, limit int) ([]domain.Dispatch, error)
}

type dispatchRepository struct {
	db *sqlx.DB
}

func NewDispatchRepository(db *sqlx.DB) DispatchRepository {
	return &dispatchRepository{db: db}
}

func (r *dispatchRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, dispatchSchema)
	return err
}

func (r *dispatchRepository) Create(ctx context.Context, dispatch *domain.Dispatch) error {
	query := `
		INSERT INTO notification_dispatches (id, subject, recipient_count, status, error)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		dispatch.ID, dispatch.Subject, dispatch.RecipientCount, dispatch.Status, dispatch.Error,
	).Scan(&dispatch.CreatedAt)
}

func (r *dispatchRepository) ListRecent(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	dispatches := []domain.Dispatch{}
	query := `
		SELECT id, subject, recipient_count, status, error, created_at
		FROM notification_dispatches
		ORDER BY created_at DESC
		LIMIT $1`
	if err := r.db.SelectContext(ctx, &dispatches, query, limit); err != nil {
		return nil, err
	}
	return dispatches, nil
}
