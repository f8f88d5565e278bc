package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

func reviewsPath(movieID int64) string {
	return "/movies/" + strconv.FormatInt(movieID, 10) + "/reviews"
}

func (h *handler) reviewLinks(movieID, reviewID int64) []Link {
	base := reviewsPath(movieID)
	p := fmt.Sprintf("%s/%d", base, reviewID)
	return []Link{
		h.links.link("self", p, http.MethodGet),
		h.links.link("update the review", p, http.MethodPut),
		h.links.link("delete the review", p, http.MethodDelete),
		h.links.link("reviews for the movie", base, http.MethodGet),
	}
}

func (h *handler) listReviews(w http.ResponseWriter, r *http.Request) {
	movieID, _, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filter, err := parseReviewQuery(r, movieID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cached(w, r, func() (any, error) {
		list, err := h.Reviews.List(r.Context(), filter)
		if err != nil {
			return nil, err
		}

		base := reviewsPath(movieID)
		query := url.Values{}
		if filter.Rating != nil {
			query.Set("rating", strconv.Itoa(*filter.Rating))
		}
		links := []Link{
			h.links.link("self", base, http.MethodGet),
			h.links.link("specific review", base+"/{review}", http.MethodGet),
			h.links.link("add a review", base, http.MethodPost),
			h.links.link("the movie", "/movies/"+strconv.FormatInt(movieID, 10), http.MethodGet),
		}
		links = h.links.pageLinks(links, base, "reviews", filter.Page.Normalize(), list.Count, query)

		return envelope{
			"reviews": list,
			"message": "All movie reviews for your selected movie and provided options",
			"links":   links,
		}, nil
	})
}

func (h *handler) getReview(w http.ResponseWriter, r *http.Request) {
	movieID, _, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reviewID, _, err := pathID(r, "reviewId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cached(w, r, func() (any, error) {
		review, err := h.Reviews.Get(r.Context(), movieID, reviewID)
		if err != nil {
			return nil, err
		}
		return envelope{
			"review":  review,
			"message": "The movie review is fetched",
			"links":   h.reviewLinks(movieID, review.ID),
		}, nil
	})
}

func (h *handler) createReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	movieID, raw, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	review, err := h.Reviews.Create(r.Context(), actor, movieID, &models.Review{
		Title:       req.Title,
		Description: req.Description,
		Rating:      *req.Rating,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies/"+raw+"/reviews", "")

	w.Header().Set("Location", fmt.Sprintf("%s%s/%d", h.links.baseURL, reviewsPath(movieID), review.ID))
	writeJSON(w, http.StatusCreated, envelope{
		"review":  review,
		"message": "You have successfully created a movie review",
		"links":   h.reviewLinks(movieID, review.ID),
	})
}

func (h *handler) updateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	movieID, rawMovie, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reviewID, rawReview, err := pathID(r, "reviewId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req updateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	review, err := h.Reviews.Update(r.Context(), actor, movieID, reviewID, models.ReviewPatch{
		Title:       req.Title,
		Description: req.Description,
		Rating:      req.Rating,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies/"+rawMovie+"/reviews", rawReview)

	writeJSON(w, http.StatusOK, envelope{
		"review":  review,
		"message": "You have successfully updated the movie review",
		"links":   h.reviewLinks(movieID, reviewID),
	})
}

func (h *handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	movieID, rawMovie, err := pathID(r, "movieId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reviewID, rawReview, err := pathID(r, "reviewId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Reviews.Delete(r.Context(), actor, movieID, reviewID); err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies/"+rawMovie+"/reviews", rawReview)

	base := reviewsPath(movieID)
	writeJSON(w, http.StatusOK, envelope{
		"message": "You have successfully deleted the movie review",
		"links": []Link{
			h.links.link("reviews for the movie", base, http.MethodGet),
			h.links.link("add a review", base, http.MethodPost),
		},
	})
}
