// Package users provides the PostgreSQL-backed account repository.
package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

const selectColumns = `id, username, password_hash, refresh_token_hash, permission_level, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in the generated id, timestamps and default
// permission level. A taken username yields common.ErrNotUnique.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, permission_level, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, user.UserName, user.PasswordHash).
		Scan(&user.ID, &user.PermissionLevel, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// Save persists the mutable fields of an existing user. An empty
// RefreshTokenHash is stored as NULL.
func (r *PostgresRepository) Save(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users
		 SET password_hash = $2, refresh_token_hash = $3, permission_level = $4, updated_at = now()
		 WHERE id = $1
		 `

	refresh := sql.NullString{String: user.RefreshTokenHash, Valid: user.RefreshTokenHash != ""}
	res, err := r.db.ExecContext(ctx, query, user.ID, user.PasswordHash, refresh, user.PermissionLevel)
	if err != nil {
		return dbx.Classify(err)
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

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	var (
		user    models.User
		refresh sql.NullString
	)
	err := row.Scan(&user.ID, &user.UserName, &user.PasswordHash, &refresh,
		&user.PermissionLevel, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	user.RefreshTokenHash = refresh.String
	return &user, nil
}
