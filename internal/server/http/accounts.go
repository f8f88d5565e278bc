package http

import (
	"fmt"
	"net/http"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", h.links.baseURL+"/accounts/authenticate")
	writeJSON(w, http.StatusCreated, envelope{
		"id": user.ID,
		"message": fmt.Sprintf("Welcome to Movie Review Center %s. Please login via link below with your username and password before able to access more endpoints",
			user.UserName),
		"links": []Link{
			h.links.link("self", "/accounts/register", http.MethodPost),
			h.links.link("authenticate", "/accounts/authenticate", http.MethodPost),
		},
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	pair, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"userId":       pair.UserID,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"message":      "You are now authenticated",
		"links": []Link{
			h.links.link("self", "/accounts/authenticate", http.MethodPost),
			h.links.link("refresh access token", "/accounts/refresh", http.MethodPost),
			h.links.link("movies", "/movies", http.MethodGet),
		},
	})
}

// refresh rotates tokens. The refresh token travels as a bearer token and
// the owning user id in the body.
func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	token, err := bearerToken(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	pair, err := h.Accounts.Refresh(r.Context(), req.UserID, token)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"userId":       pair.UserID,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"message":      "You have now refreshed your access token and refresh token",
		"links": []Link{
			h.links.link("self", "/accounts/refresh", http.MethodPost),
			h.links.link("movies", "/movies", http.MethodGet),
		},
	})
}
