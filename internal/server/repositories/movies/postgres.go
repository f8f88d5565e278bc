// Package movies provides the PostgreSQL-backed movie catalogue repository.
package movies

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

const selectColumns = `id, name, year, image_cover_link, created_at, updated_at`

// PostgresRepository implements movie storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns one page of movies ordered by id, plus the total count of
// movies matching the filter.
func (r *PostgresRepository) List(ctx context.Context, filter models.MovieFilter) (models.List[models.Movie], error) {
	page := filter.Page.Normalize()
	result := models.List[models.Movie]{Rows: []models.Movie{}}

	where := ""
	args := []any{}
	if filter.Year != "" {
		where = ` WHERE year = $1`
		args = append(args, filter.Year)
	}

	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM movies`+where, args...).Scan(&result.Count); err != nil {
		return result, fmt.Errorf("db error: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM movies%s ORDER BY id LIMIT $%d OFFSET $%d`,
		selectColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Size, page.StartIndex)...)
	if err != nil {
		return result, fmt.Errorf("failed to select movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return result, err
		}
		result.Rows = append(result.Rows, *m)
	}
	if err := rows.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT ` + selectColumns + ` FROM movies WHERE id = $1`
	m, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return m, nil
}

// Create inserts movie. A duplicate cover link yields common.ErrNotUnique.
func (r *PostgresRepository) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	query :=
		`INSERT INTO movies (name, year, image_cover_link)
		 VALUES ($1, $2, NULLIF($3, ''))
		 RETURNING ` + selectColumns

	m, err := scan(r.db.QueryRowContext(ctx, query, movie.Name, movie.Year, movie.ImageCoverLink))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return m, nil
}

// Update applies the non-empty fields of patch and returns the stored movie.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.MoviePatch) (*models.Movie, error) {
	query :=
		`UPDATE movies
		 SET name = COALESCE(NULLIF($2, ''), name),
		     year = COALESCE(NULLIF($3, ''), year),
		     image_cover_link = COALESCE(NULLIF($4, ''), image_cover_link),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING ` + selectColumns

	m, err := scan(r.db.QueryRowContext(ctx, query, id, patch.Name, patch.Year, patch.ImageCoverLink))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return m, nil
}

// Delete removes the movie and, by cascade, its reviews.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
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

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Movie, error) {
	var (
		m     models.Movie
		cover sql.NullString
	)
	if err := s.Scan(&m.ID, &m.Name, &m.Year, &cover, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.ImageCoverLink = cover.String
	return &m, nil
}
