// Package webhooks provides the PostgreSQL-backed repository for
// movie-created webhook subscriptions.
package webhooks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

const selectColumns = `id, user_id, url, token, created_at, updated_at`

// PostgresRepository implements webhook storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Webhook, error) {
	w, err := scan(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM webhooks WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return w, nil
}

// FindByUserID returns the single webhook owned by userID.
func (r *PostgresRepository) FindByUserID(ctx context.Context, userID int64) (*models.Webhook, error) {
	w, err := scan(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM webhooks WHERE user_id = $1`, userID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return w, nil
}

// Create inserts webhook. Both a second webhook for the same user and a
// reused URL yield common.ErrNotUnique.
func (r *PostgresRepository) Create(ctx context.Context, webhook *models.Webhook) (*models.Webhook, error) {
	query :=
		`INSERT INTO webhooks (user_id, url, token)
		 VALUES ($1, $2, $3)
		 RETURNING ` + selectColumns

	w, err := scan(r.db.QueryRowContext(ctx, query, webhook.UserID, webhook.URL, webhook.Token))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return w, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListAll returns every registered webhook, used for event delivery.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Webhook, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM webhooks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select webhooks: %w", err)
	}
	defer rows.Close()

	var result []models.Webhook
	for rows.Next() {
		w, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Webhook, error) {
	var w models.Webhook
	if err := s.Scan(&w.ID, &w.UserID, &w.URL, &w.Token, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
