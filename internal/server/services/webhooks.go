package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/repomanager"
)

// webhookTokenLength is the size of a generated token when the caller does not supply one.
const webhookTokenLength = 32

// WebhookService manages movie-created webhook subscriptions, at most one per user.
type WebhookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	random      RandomString
}

func NewWebhookService(db *sql.DB, m repomanager.RepositoryManager, random RandomString) *WebhookService {
	if random == nil {
		random = common.MakeRandBase64String
	}
	return &WebhookService{db: db, repomanager: m, random: random}
}

// Get returns the webhook if actor owns it. Ownership is checked on every
// call, so callers can rely on it before serving anything cached.
func (s *WebhookService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.Webhook, error) {
	webhook, err := s.repomanager.Webhooks(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, webhook.UserID); err != nil {
		return nil, err
	}
	return webhook, nil
}

// Create registers url for actor. An empty token is replaced by a random one.
func (s *WebhookService) Create(ctx context.Context, actor auth.Identity, url, token string) (*models.Webhook, error) {
	repo := s.repomanager.Webhooks(s.db)

	_, err := repo.FindByUserID(ctx, actor.UserID)
	switch {
	case err == nil:
		return nil, common.ErrWebhookAlreadySet
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	if token == "" {
		if token, err = s.random(webhookTokenLength); err != nil {
			return nil, fmt.Errorf("generate webhook token: %w", err)
		}
	}

	webhook, err := repo.Create(ctx, &models.Webhook{UserID: actor.UserID, URL: url, Token: token})
	if err != nil {
		if errors.Is(err, common.ErrNotUnique) && strings.Contains(err.Error(), "user_id") {
			return nil, common.ErrWebhookAlreadySet
		}
		return nil, err
	}
	return webhook, nil
}

func (s *WebhookService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Webhooks(tx)
		webhook, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(actor, webhook.UserID); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// ListAll returns every subscription, for delivery.
func (s *WebhookService) ListAll(ctx context.Context) ([]models.Webhook, error) {
	return s.repomanager.Webhooks(s.db).ListAll(ctx)
}
