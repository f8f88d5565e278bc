package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/server/auth"
	"github.com/dmitrijs2005/moviereviews/internal/server/cache"
	"github.com/go-chi/chi/v5"
)

// cached serves GET responses from the response cache. On a miss render
// builds the body, which is stored only when it renders successfully.
func (h *handler) cached(w http.ResponseWriter, r *http.Request, render func() (any, error)) {
	key := cache.Key(r.Host, r.URL.RequestURI())
	if b, ok := h.Cache.Get(key); ok {
		writeRaw(w, http.StatusOK, b)
		return
	}

	v, err := render()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Cache.Set(key, b)
	writeRaw(w, http.StatusOK, b)
}

// invalidate drops the cached collection at path and, if given, its item.
func (h *handler) invalidate(r *http.Request, path, itemID string) {
	h.Cache.Invalidate(r.Host+path, itemID)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, h.Logger, err)
}

// actor returns the authenticated caller. Routes without the authenticate
// middleware never call it.
func (h *handler) actor(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := identityFrom(r.Context())
	if !ok {
		h.fail(w, r, common.ErrUnauthenticated)
	}
	return id, ok
}

// pathID parses a numeric URL parameter. Anything else cannot name an
// existing resource, so it is reported as not found.
func pathID(r *http.Request, name string) (int64, string, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, raw, common.ErrorNotFound
	}
	return id, raw, nil
}

func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, func() (any, error) {
		return envelope{
			"message": "Welcome to the REST API for Movie Reviews Center",
			"links": []Link{
				h.links.link("self", "/", http.MethodGet),
				h.links.link("register", "/accounts/register", http.MethodPost),
				h.links.link("authenticate", "/accounts/authenticate", http.MethodPost),
				h.links.link("movies", "/movies", http.MethodGet),
			},
		}, nil
	})
}
