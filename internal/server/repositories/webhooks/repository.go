package webhooks

import (
	"context"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*models.Webhook, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Webhook, error)
	Create(ctx context.Context, webhook *models.Webhook) (*models.Webhook, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]models.Webhook, error)
}
