package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/users"
)

// requireAdmin fails with common.ErrUnauthorized unless the caller's account
// still exists and has the ADMIN permission level.
func requireAdmin(ctx context.Context, repo users.Repository, actor auth.Identity) error {
	user, err := repo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUnauthorized
		}
		return err
	}
	if user.PermissionLevel != common.PermissionLevelAdmin {
		return common.ErrUnauthorized
	}
	return nil
}

func requireOwner(actor auth.Identity, ownerID int64) error {
	if actor.UserID != ownerID {
		return common.ErrUnauthorized
	}
	return nil
}
