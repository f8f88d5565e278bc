package reviews

import (
	"context"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ReviewFilter) (models.List[models.Review], error)
	Get(ctx context.Context, id int64) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	Update(ctx context.Context, id int64, patch models.ReviewPatch) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
	IDsByMovie(ctx context.Context, movieID int64) ([]int64, error)
}
