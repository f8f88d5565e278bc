// Package services contains server-side business logic: credential handling
// (TokenService, AccountService) and the movie, review and webhook use cases.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a refresh token.
type TokenPair struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
}

// AccountService provides account operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Refresh: check a refresh token, rotate it and mint a new access token
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	hasher      SecretHasher
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, tokens *TokenService, hasher SecretHasher) *AccountService {
	return &AccountService{db: db, repomanager: m, tokens: tokens, hasher: hasher}
}

// Register creates a user with a bcrypt-hashed password and the default
// permission level. A taken username yields common.ErrUsernameTaken.
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrNotUnique) {
			return nil, common.ErrUsernameTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns a new TokenPair. The refresh
// token issued here replaces any earlier one.
func (s *AccountService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	id, err := s.tokens.AuthenticateCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, id.UserID, id.Username)
}

// Refresh authenticates refreshToken for userID and rotates it.
func (s *AccountService) Refresh(ctx context.Context, userID int64, refreshToken string) (*TokenPair, error) {
	id, err := s.tokens.AuthenticateRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.issuePair(ctx, id.UserID, id.Username)
}

func (s *AccountService) issuePair(ctx context.Context, userID int64, username string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID, username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueAndStoreRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{UserID: userID, AccessToken: access, RefreshToken: refresh}, nil
}
