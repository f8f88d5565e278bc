// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/migrations"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/movies"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/users"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/webhooks"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Movies returns a movies.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Movies(db dbx.DBTX) movies.Repository {
	return movies.NewPostgresRepository(db)
}

// Reviews returns a reviews.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Reviews(db dbx.DBTX) reviews.Repository {
	return reviews.NewPostgresRepository(db)
}

// Webhooks returns a webhooks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Webhooks(db dbx.DBTX) webhooks.Repository {
	return webhooks.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
