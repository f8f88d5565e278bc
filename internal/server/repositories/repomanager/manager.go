package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/movies"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/users"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/webhooks"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Movies(db dbx.DBTX) movies.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Webhooks(db dbx.DBTX) webhooks.Repository
}
