package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/dbx"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/movies"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/users"
	"github.com/dmitrijs2005/moviereviews/internal/server/repositories/webhooks"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[int64]*models.User
	nextID  int64
	findErr error
	saveErr error
	saves   int
}

func newFakeUsersRepo(us ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byID: map[int64]*models.User{}}
	for _, u := range us {
		r.byID[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.UserName == u.UserName {
			return nil, fmt.Errorf("%w: users_username_key", common.ErrNotUnique)
		}
	}
	f.nextID++
	c := *u
	c.ID = f.nextID
	c.PermissionLevel = common.PermissionLevelUser
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.UserName == username {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Save(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	c := *u
	f.byID[u.ID] = &c
	f.saves++
	return nil
}

// --- movies ---

type fakeMoviesRepo struct {
	byID    map[int64]*models.Movie
	nextID  int64
	deleted []int64
	lastF   models.MovieFilter
}

func newFakeMoviesRepo(ms ...*models.Movie) *fakeMoviesRepo {
	r := &fakeMoviesRepo{byID: map[int64]*models.Movie{}}
	for _, m := range ms {
		r.byID[m.ID] = m
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
	}
	return r
}

func (f *fakeMoviesRepo) List(ctx context.Context, filter models.MovieFilter) (models.List[models.Movie], error) {
	f.lastF = filter
	out := models.List[models.Movie]{Rows: []models.Movie{}}
	for _, m := range f.byID {
		if filter.Year == "" || m.Year == filter.Year {
			out.Rows = append(out.Rows, *m)
		}
	}
	out.Count = int64(len(out.Rows))
	return out, nil
}

func (f *fakeMoviesRepo) Get(ctx context.Context, id int64) (*models.Movie, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMoviesRepo) Create(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	f.nextID++
	c := *m
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeMoviesRepo) Update(ctx context.Context, id int64, p models.MoviePatch) (*models.Movie, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Name != "" {
		m.Name = p.Name
	}
	if p.Year != "" {
		m.Year = p.Year
	}
	if p.ImageCoverLink != "" {
		m.ImageCoverLink = p.ImageCoverLink
	}
	c := *m
	return &c, nil
}

func (f *fakeMoviesRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// --- reviews ---

type fakeReviewsRepo struct {
	byID   map[int64]*models.Review
	nextID int64
	lastF  models.ReviewFilter
}

func newFakeReviewsRepo(rs ...*models.Review) *fakeReviewsRepo {
	r := &fakeReviewsRepo{byID: map[int64]*models.Review{}}
	for _, rv := range rs {
		r.byID[rv.ID] = rv
		if rv.ID > r.nextID {
			r.nextID = rv.ID
		}
	}
	return r
}

func (f *fakeReviewsRepo) List(ctx context.Context, filter models.ReviewFilter) (models.List[models.Review], error) {
	f.lastF = filter
	out := models.List[models.Review]{Rows: []models.Review{}}
	for _, r := range f.byID {
		if r.MovieID == filter.MovieID && (filter.Rating == nil || *filter.Rating == r.Rating) {
			out.Rows = append(out.Rows, *r)
		}
	}
	out.Count = int64(len(out.Rows))
	return out, nil
}

func (f *fakeReviewsRepo) Get(ctx context.Context, id int64) (*models.Review, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *r
	return &c, nil
}

func (f *fakeReviewsRepo) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	f.nextID++
	c := *r
	c.ID = f.nextID
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeReviewsRepo) Update(ctx context.Context, id int64, p models.ReviewPatch) (*models.Review, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Title != "" {
		r.Title = p.Title
	}
	if p.Description != "" {
		r.Description = p.Description
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	c := *r
	return &c, nil
}

func (f *fakeReviewsRepo) IDsByMovie(ctx context.Context, movieID int64) ([]int64, error) {
	ids := []int64{}
	for id, r := range f.byID {
		if r.MovieID == movieID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeReviewsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- webhooks ---

type fakeWebhooksRepo struct {
	byID      map[int64]*models.Webhook
	nextID    int64
	createErr error
}

func newFakeWebhooksRepo(ws ...*models.Webhook) *fakeWebhooksRepo {
	r := &fakeWebhooksRepo{byID: map[int64]*models.Webhook{}}
	for _, w := range ws {
		r.byID[w.ID] = w
		if w.ID > r.nextID {
			r.nextID = w.ID
		}
	}
	return r
}

func (f *fakeWebhooksRepo) Get(ctx context.Context, id int64) (*models.Webhook, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *w
	return &c, nil
}

func (f *fakeWebhooksRepo) FindByUserID(ctx context.Context, userID int64) (*models.Webhook, error) {
	for _, w := range f.byID {
		if w.UserID == userID {
			c := *w
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeWebhooksRepo) Create(ctx context.Context, w *models.Webhook) (*models.Webhook, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	c := *w
	c.ID = f.nextID
	f.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeWebhooksRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeWebhooksRepo) ListAll(ctx context.Context) ([]models.Webhook, error) {
	var out []models.Webhook
	for _, w := range f.byID {
		out = append(out, *w)
	}
	return out, nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	m *fakeMoviesRepo
	r *fakeReviewsRepo
	w *fakeWebhooksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		m: newFakeMoviesRepo(),
		r: newFakeReviewsRepo(),
		w: newFakeWebhooksRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Movies(db dbx.DBTX) movies.Repository        { return m.m }
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviews.Repository      { return m.r }
func (m *fakeRepoManager) Webhooks(db dbx.DBTX) webhooks.Repository    { return m.w }
