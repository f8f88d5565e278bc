package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

// UserStore is the part of the users repository the token service needs.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// TokenSigner issues and verifies access tokens.
type TokenSigner interface {
	Sign(id auth.Identity) (string, error)
	Verify(token string) (auth.Identity, error)
}

// SecretHasher is a slow one-way hash for passwords and refresh tokens.
type SecretHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

// RandomString returns a random string of the given length.
type RandomString func(length int) (string, error)

// TokenService issues and checks the credentials of the API: stateless
// access tokens and per-user refresh tokens whose hash is kept on the user
// row. Only the most recently issued refresh token of a user is valid.
type TokenService struct {
	users  UserStore
	signer TokenSigner
	hasher SecretHasher
	random RandomString

	dummyOnce sync.Once
	dummyHash string
}

// NewTokenService wires the token service. A nil random falls back to
// common.MakeRandBase64String.
func NewTokenService(users UserStore, signer TokenSigner, hasher SecretHasher, random RandomString) *TokenService {
	if random == nil {
		random = common.MakeRandBase64String
	}
	return &TokenService{users: users, signer: signer, hasher: hasher, random: random}
}

// IssueAccessToken signs an access token carrying userID and username.
func (s *TokenService) IssueAccessToken(userID int64, username string) (string, error) {
	token, err := s.signer.Sign(auth.Identity{UserID: userID, Username: username})
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// VerifyAccessToken returns the identity carried by a valid access token.
// Any rejection is reported as common.ErrUnauthenticated.
func (s *TokenService) VerifyAccessToken(raw string) (auth.Identity, error) {
	id, err := s.signer.Verify(raw)
	if err != nil {
		return auth.Identity{}, common.ErrUnauthenticated
	}
	return id, nil
}

// IssueAndStoreRefreshToken generates a new refresh token for userID, stores
// its hash in place of any previous one and returns the plaintext.
func (s *TokenService) IssueAndStoreRefreshToken(ctx context.Context, userID int64) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	token, err := s.random(common.RefreshTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}

	hash, err := s.hasher.Hash(token)
	if err != nil {
		return "", fmt.Errorf("hash refresh token: %w", err)
	}

	user.RefreshTokenHash = hash
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	return token, nil
}

// AuthenticateRefreshToken checks token against the hash stored for userID.
// It does not rotate the token.
func (s *TokenService) AuthenticateRefreshToken(ctx context.Context, userID int64, token string) (auth.Identity, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(token)
			return auth.Identity{}, common.ErrWrongRefreshToken
		}
		return auth.Identity{}, err
	}

	if user.RefreshTokenHash == "" {
		s.compareDummy(token)
		return auth.Identity{}, common.ErrWrongRefreshToken
	}
	if err := s.hasher.Compare(user.RefreshTokenHash, token); err != nil {
		return auth.Identity{}, common.ErrWrongRefreshToken
	}

	return auth.Identity{UserID: user.ID, Username: user.UserName}, nil
}

// AuthenticateCredentials checks a username and password pair. Unknown user
// and wrong password fail identically, in both error and cost.
func (s *TokenService) AuthenticateCredentials(ctx context.Context, username, password string) (auth.Identity, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(password)
			return auth.Identity{}, common.ErrWrongCredentials
		}
		return auth.Identity{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return auth.Identity{}, common.ErrWrongCredentials
	}

	return auth.Identity{UserID: user.ID, Username: user.UserName}, nil
}

func (s *TokenService) compareDummy(secret string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	_ = s.hasher.Compare(s.dummyHash, secret)
}
