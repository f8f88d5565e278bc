package movies

import (
	"context"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.MovieFilter) (models.List[models.Movie], error)
	Get(ctx context.Context, id int64) (*models.Movie, error)
	Create(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	Update(ctx context.Context, id int64, patch models.MoviePatch) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
}
