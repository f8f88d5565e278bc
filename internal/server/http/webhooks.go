package http

import (
	"fmt"
	"net/http"
)

func (h *handler) webhookLinks(id int64) []Link {
	p := fmt.Sprintf("/movies/webhooks/%d", id)
	return []Link{
		h.links.link("self", p, http.MethodGet),
		h.links.link("delete the webhook", p, http.MethodDelete),
	}
}

// getWebhook checks ownership before consulting the cache so a cached body
// is never served to another user.
func (h *handler) getWebhook(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, _, err := pathID(r, "webhookId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	hook, err := h.Webhooks.Get(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cached(w, r, func() (any, error) {
		return envelope{
			"webhook": hook,
			"message": "The movie webhook is fetched",
			"links":   h.webhookLinks(hook.ID),
		}, nil
	})
}

func (h *handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req createWebhookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	hook, err := h.Webhooks.Create(r.Context(), actor, req.URL, req.Token)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/movies/webhooks/%d", h.links.baseURL, hook.ID))
	writeJSON(w, http.StatusCreated, envelope{
		"webhook": hook,
		"message": "The movie webhook is created",
		"links":   h.webhookLinks(hook.ID),
	})
}

func (h *handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, raw, err := pathID(r, "webhookId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.Webhooks.Delete(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}

	h.invalidate(r, "/movies/webhooks", raw)

	writeJSON(w, http.StatusOK, envelope{
		"message": "The movie webhook is deleted",
		"links": []Link{
			h.links.link("add a webhook", "/movies/webhooks", http.MethodPost),
			h.links.link("movies", "/movies", http.MethodGet),
		},
	})
}
