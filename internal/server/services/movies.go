package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/repomanager"
)

// MovieService manages the movie catalogue. Reads are public; writes need an
// ADMIN caller.
type MovieService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMovieService(db *sql.DB, m repomanager.RepositoryManager) *MovieService {
	return &MovieService{db: db, repomanager: m}
}

func (s *MovieService) List(ctx context.Context, filter models.MovieFilter) (models.List[models.Movie], error) {
	filter.Page = filter.Page.Normalize()
	return s.repomanager.Movies(s.db).List(ctx, filter)
}

func (s *MovieService) Get(ctx context.Context, id int64) (*models.Movie, error) {
	return s.repomanager.Movies(s.db).Get(ctx, id)
}

func (s *MovieService) Create(ctx context.Context, actor auth.Identity, movie *models.Movie) (*models.Movie, error) {
	if err := requireAdmin(ctx, s.repomanager.Users(s.db), actor); err != nil {
		return nil, err
	}
	return s.repomanager.Movies(s.db).Create(ctx, movie)
}

// Update applies the non-empty fields of patch.
func (s *MovieService) Update(ctx context.Context, actor auth.Identity, id int64, patch models.MoviePatch) (*models.Movie, error) {
	if err := requireAdmin(ctx, s.repomanager.Users(s.db), actor); err != nil {
		return nil, err
	}
	return s.repomanager.Movies(s.db).Update(ctx, id, patch)
}

// Delete removes the movie together with its reviews and returns the ids of
// the reviews that went with it.
func (s *MovieService) Delete(ctx context.Context, actor auth.Identity, id int64) ([]int64, error) {
	if err := requireAdmin(ctx, s.repomanager.Users(s.db), actor); err != nil {
		return nil, err
	}
	var reviewIDs []int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		movies := s.repomanager.Movies(tx)
		if _, err := movies.Get(ctx, id); err != nil {
			return err
		}
		ids, err := s.repomanager.Reviews(tx).IDsByMovie(ctx, id)
		if err != nil {
			return err
		}
		if err := movies.Delete(ctx, id); err != nil {
			return err
		}
		reviewIDs = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewIDs, nil
}
