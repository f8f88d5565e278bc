// Package reviews provides the PostgreSQL-backed repository for movie reviews.
package reviews

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

const selectColumns = `id, movie_id, user_id, title, description, rating, created_at, updated_at`

// PostgresRepository implements review storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of a movie's reviews, optionally restricted to one rating.
func (r *PostgresRepository) List(ctx context.Context, filter models.ReviewFilter) (models.List[models.Review], error) {
	page := filter.Page.Normalize()
	result := models.List[models.Review]{Rows: []models.Review{}}

	where := ` WHERE movie_id = $1`
	args := []any{filter.MovieID}
	if filter.Rating != nil {
		where += ` AND rating = $2`
		args = append(args, *filter.Rating)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM movie_reviews`+where, args...).Scan(&result.Count); err != nil {
		return result, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM movie_reviews%s ORDER BY id LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Size, page.StartIndex)...)
	if err != nil {
		return result, fmt.Errorf("failed to select reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return result, err
		}
		result.Rows = append(result.Rows, *item)
	}
	if err := rows.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Review, error) {
	item, err := scan(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM movie_reviews WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO movie_reviews (movie_id, user_id, title, description, rating)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + selectColumns

	item, err := scan(r.db.QueryRowContext(ctx, query,
		review.MovieID, review.UserID, review.Title, review.Description, review.Rating))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return item, nil
}

// Update applies the set fields of patch and returns the stored review.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.ReviewPatch) (*models.Review, error) {
	query :=
		`UPDATE movie_reviews
		 SET title = COALESCE(NULLIF($2, ''), title),
		     description = COALESCE(NULLIF($3, ''), description),
		     rating = COALESCE($4, rating),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + selectColumns

	var rating sql.NullInt64
	if patch.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*patch.Rating), Valid: true}
	}

	item, err := scan(r.db.QueryRowContext(ctx, query, id, patch.Title, patch.Description, rating))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movie_reviews WHERE id = $1`, id)
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

// IDsByMovie returns the ids of all reviews of a movie.
func (r *PostgresRepository) IDsByMovie(ctx context.Context, movieID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM movie_reviews WHERE movie_id = $1 ORDER BY id`, movieID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Review, error) {
	var item models.Review
	err := s.Scan(&item.ID, &item.MovieID, &item.UserID, &item.Title, &item.Description,
		&item.Rating, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
