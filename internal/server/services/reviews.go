package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/repomanager"
)

// ReviewService manages the reviews of a movie. Any authenticated user may
// post; only the author may change or remove a review.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

func (s *ReviewService) List(ctx context.Context, filter models.ReviewFilter) (models.List[models.Review], error) {
	filter.Page = filter.Page.Normalize()
	return s.repomanager.Reviews(s.db).List(ctx, filter)
}

// Get returns the review if it exists and belongs to movieID.
func (s *ReviewService) Get(ctx context.Context, movieID, reviewID int64) (*models.Review, error) {
	return s.load(ctx, s.db, movieID, reviewID)
}

// Create posts a review by actor on an existing movie.
func (s *ReviewService) Create(ctx context.Context, actor auth.Identity, movieID int64, review *models.Review) (*models.Review, error) {
	var created *models.Review
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Movies(tx).Get(ctx, movieID); err != nil {
			return err
		}
		review.MovieID = movieID
		review.UserID = actor.UserID

		var err error
		created, err = s.repomanager.Reviews(tx).Create(ctx, review)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ReviewService) Update(ctx context.Context, actor auth.Identity, movieID, reviewID int64, patch models.ReviewPatch) (*models.Review, error) {
	var updated *models.Review
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		review, err := s.load(ctx, tx, movieID, reviewID)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, review.UserID); err != nil {
			return err
		}
		updated, err = s.repomanager.Reviews(tx).Update(ctx, reviewID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor auth.Identity, movieID, reviewID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		review, err := s.load(ctx, tx, movieID, reviewID)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, review.UserID); err != nil {
			return err
		}
		return s.repomanager.Reviews(tx).Delete(ctx, reviewID)
	})
}

func (s *ReviewService) load(ctx context.Context, db dbx.DBTX, movieID, reviewID int64) (*models.Review, error) {
	review, err := s.repomanager.Reviews(db).Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.MovieID != movieID {
		return nil, common.ErrorNotFound
	}
	return review, nil
}
