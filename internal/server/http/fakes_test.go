package http

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/services"
)

var (
	adminID = auth.Identity{UserID: 1, Username: "admin"}
	userID  = auth.Identity{UserID: 2, Username: "jane"}
	otherID = auth.Identity{UserID: 3, Username: "bob"}
)

type fakeVerifier map[string]auth.Identity

func (f fakeVerifier) VerifyAccessToken(raw string) (auth.Identity, error) {
	id, ok := f[raw]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

type fakeAccounts struct {
	registered []string
	refreshes  []string
}

func (f *fakeAccounts) Register(_ context.Context, username, _ string) (*models.User, error) {
	for _, u := range f.registered {
		if u == username {
			return nil, common.ErrUsernameTaken
		}
	}
	f.registered = append(f.registered, username)
	return &models.User{ID: int64(len(f.registered)), UserName: username}, nil
}

func (f *fakeAccounts) Login(_ context.Context, username, password string) (*services.TokenPair, error) {
	if username != "jane" || password != "secret123" {
		return nil, common.ErrWrongCredentials
	}
	return &services.TokenPair{UserID: 2, AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAccounts) Refresh(_ context.Context, userID int64, token string) (*services.TokenPair, error) {
	f.refreshes = append(f.refreshes, token)
	if userID != 2 || token != "refresh" {
		return nil, common.ErrWrongRefreshToken
	}
	return &services.TokenPair{UserID: 2, AccessToken: "access2", RefreshToken: "refresh2"}, nil
}

type fakeMovies struct {
	mu        sync.Mutex
	movies    map[int64]models.Movie
	nextID    int64
	listCalls int
	getCalls  int
	lastList  models.MovieFilter
	total     int64
	cascade   map[int64][]int64
}

func newFakeMovies(movies ...models.Movie) *fakeMovies {
	f := &fakeMovies{movies: map[int64]models.Movie{}}
	for _, m := range movies {
		f.movies[m.ID] = m
		f.nextID = max(f.nextID, m.ID)
	}
	return f
}

func (f *fakeMovies) List(_ context.Context, filter models.MovieFilter) (models.List[models.Movie], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastList = filter
	out := models.List[models.Movie]{Count: int64(len(f.movies)), Rows: []models.Movie{}}
	if f.total > 0 {
		out.Count = f.total
	}
	for _, m := range f.movies {
		out.Rows = append(out.Rows, m)
	}
	return out, nil
}

func (f *fakeMovies) Get(_ context.Context, id int64) (*models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	m, ok := f.movies[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (f *fakeMovies) Create(_ context.Context, actor auth.Identity, movie *models.Movie) (*models.Movie, error) {
	if actor.UserID != adminID.UserID {
		return nil, common.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	movie.ID = f.nextID
	f.movies[movie.ID] = *movie
	return movie, nil
}

func (f *fakeMovies) Update(_ context.Context, actor auth.Identity, id int64, patch models.MoviePatch) (*models.Movie, error) {
	if actor.UserID != adminID.UserID {
		return nil, common.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Name != "" {
		m.Name = patch.Name
	}
	if patch.Year != "" {
		m.Year = patch.Year
	}
	f.movies[id] = m
	return &m, nil
}

func (f *fakeMovies) Delete(_ context.Context, actor auth.Identity, id int64) ([]int64, error) {
	if actor.UserID != adminID.UserID {
		return nil, common.ErrUnauthorized
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.movies[id]; !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.movies, id)
	return f.cascade[id], nil
}

type fakeReviews struct {
	reviews   map[int64]models.Review
	nextID    int64
	listCalls int
	lastList  models.ReviewFilter
}

func newFakeReviews(reviews ...models.Review) *fakeReviews {
	f := &fakeReviews{reviews: map[int64]models.Review{}}
	for _, r := range reviews {
		f.reviews[r.ID] = r
		f.nextID = max(f.nextID, r.ID)
	}
	return f
}

func (f *fakeReviews) List(_ context.Context, filter models.ReviewFilter) (models.List[models.Review], error) {
	f.listCalls++
	f.lastList = filter
	out := models.List[models.Review]{Rows: []models.Review{}}
	for _, r := range f.reviews {
		if r.MovieID == filter.MovieID {
			out.Rows = append(out.Rows, r)
		}
	}
	out.Count = int64(len(out.Rows))
	return out, nil
}

func (f *fakeReviews) Get(_ context.Context, movieID, reviewID int64) (*models.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.MovieID != movieID {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (f *fakeReviews) Create(_ context.Context, actor auth.Identity, movieID int64, review *models.Review) (*models.Review, error) {
	f.nextID++
	review.ID = f.nextID
	review.MovieID = movieID
	review.UserID = actor.UserID
	f.reviews[review.ID] = *review
	return review, nil
}

func (f *fakeReviews) Update(_ context.Context, actor auth.Identity, movieID, reviewID int64, patch models.ReviewPatch) (*models.Review, error) {
	r, ok := f.reviews[reviewID]
	if !ok || r.MovieID != movieID {
		return nil, common.ErrorNotFound
	}
	if r.UserID != actor.UserID {
		return nil, common.ErrUnauthorized
	}
	if patch.Title != "" {
		r.Title = patch.Title
	}
	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	f.reviews[reviewID] = r
	return &r, nil
}

func (f *fakeReviews) Delete(_ context.Context, actor auth.Identity, movieID, reviewID int64) error {
	r, ok := f.reviews[reviewID]
	if !ok || r.MovieID != movieID {
		return common.ErrorNotFound
	}
	if r.UserID != actor.UserID {
		return common.ErrUnauthorized
	}
	delete(f.reviews, reviewID)
	return nil
}

type fakeWebhooks struct {
	hooks  map[int64]models.Webhook
	nextID int64
}

func (f *fakeWebhooks) Get(_ context.Context, actor auth.Identity, id int64) (*models.Webhook, error) {
	h, ok := f.hooks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if h.UserID != actor.UserID {
		return nil, common.ErrUnauthorized
	}
	return &h, nil
}

func (f *fakeWebhooks) Create(_ context.Context, actor auth.Identity, url, token string) (*models.Webhook, error) {
	for _, h := range f.hooks {
		if h.UserID == actor.UserID {
			return nil, common.ErrWebhookAlreadySet
		}
	}
	if token == "" {
		token = "generated"
	}
	f.nextID++
	h := models.Webhook{ID: f.nextID, UserID: actor.UserID, URL: url, Token: token}
	f.hooks[h.ID] = h
	return &h, nil
}

func (f *fakeWebhooks) Delete(_ context.Context, actor auth.Identity, id int64) error {
	h, ok := f.hooks[id]
	if !ok {
		return common.ErrorNotFound
	}
	if h.UserID != actor.UserID {
		return common.ErrUnauthorized
	}
	delete(f.hooks, id)
	return nil
}

type fakeNotifier struct {
	created []models.Movie
}

func (f *fakeNotifier) MovieCreated(_ context.Context, movie models.Movie) {
	f.created = append(f.created, movie)
}
