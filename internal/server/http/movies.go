package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

func (h *handler) movieLinks(id int64) []Link {
	p := "/movies/" + strconv.FormatInt(id, 10)
	return []Link{
		h.links.link("self", p, http.MethodGet),
		h.links.link("update the movie", p, http.MethodPut),
		h.links.link("delete the movie", p, http.MethodDelete),
		h.links.link("reviews for the movie", p+"/reviews", http.MethodGet),
	}
}

func (h *handler) listMovies(w http.ResponseWriter, r *http.Request) {
	filter, err := parseMovieQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cached(w, r, func() (any, error) {
		list, err := h.Movies.List(r.Context(), filter)
		if err != nil {
			return nil, err
		}

		query := url.Values{}
		if filter.Year != "" {
			query.Set("year", filter.Year)
		}
		links := []Link{
			h.links.link("self", "/movies", http.MethodGet),
			h.links.link("specific movie", "/movies/{movie}", http.MethodGet),
			h.links.link("reviews for a movie", "/movies/{movie}/reviews", http.MethodGet),
		}
		links = h.links.pageLinks(links, "/movies", "movies", filter.Page.Normalize(), list.Count, query)

		return envelope{
			"movies":  list,
			"message": "All movies for your provided options",
			"links":   links,
		}, nil
	})
}

func (h *handler) getMovie(w http.ResponseWriter, r *http.Request) {
	id, _, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cached(w, r, func() (any, error) {
		movie, err := h.Movies.Get(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return envelope{
			"data":    movie,
			"message": "The specific movie",
			"links":   h.movieLinks(movie.ID),
		}, nil
	})
}

func (h *handler) createMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req createMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	movie, err := h.Movies.Create(r.Context(), actor, &models.Movie{
		Name:           req.Name,
		Year:           req.Year,
		ImageCoverLink: req.ImageCoverLink,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies", "")
	if h.Notifier != nil {
		h.Notifier.MovieCreated(r.Context(), *movie)
	}

	links := append(h.movieLinks(movie.ID),
		h.links.link("add a new movie", "/movies", http.MethodPost),
		h.links.link("movies", "/movies", http.MethodGet),
	)
	w.Header().Set("Location", fmt.Sprintf("%s/movies/%d", h.links.baseURL, movie.ID))
	writeJSON(w, http.StatusCreated, envelope{
		"movie":   movie,
		"message": fmt.Sprintf("You have successfully added movie %s to database", movie.Name),
		"links":   links,
	})
}

func (h *handler) updateMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, raw, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	movie, err := h.Movies.Update(r.Context(), actor, id, models.MoviePatch{
		Name:           req.Name,
		Year:           req.Year,
		ImageCoverLink: req.ImageCoverLink,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies", raw)

	writeJSON(w, http.StatusOK, envelope{
		"movie":   movie,
		"message": fmt.Sprintf("You have successfully updated movie %s in database", movie.Name),
		"links": append(h.movieLinks(movie.ID),
			h.links.link("movies", "/movies", http.MethodGet),
		),
	})
}

func (h *handler) deleteMovie(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, raw, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	reviewIDs, err := h.Movies.Delete(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies", raw)
	// reviews are removed along with the movie
	reviews := "/movies/" + raw + "/reviews"
	h.invalidate(r, reviews, "")
	for _, rid := range reviewIDs {
		h.invalidate(r, reviews, strconv.FormatInt(rid, 10))
	}

	writeJSON(w, http.StatusOK, envelope{
		"message": fmt.Sprintf("You have successfully deleted movie %d in database", id),
		"links": []Link{
			h.links.link("add a new movie", "/movies", http.MethodPost),
			h.links.link("movies", "/movies", http.MethodGet),
		},
	})
}
