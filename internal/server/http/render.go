package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/moviereviews/internal/server/models"
)

// envelope is the top-level object of every successful response.
type envelope map[string]any

// Link is a hypermedia pointer to a related operation.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
	Type string `json:"type"`
}

type linker struct {
	baseURL string
}

func (l linker) link(rel, path, method string) Link {
	return Link{Rel: rel, Href: l.baseURL + path, Type: method}
}

// pageLinks appends previous/next links for an offset-paginated listing.
// The filter values in query are carried over.
func (l linker) pageLinks(links []Link, path, noun string, page models.Page, count int64, query url.Values) []Link {
	at := func(start int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("pageSize", strconv.Itoa(page.Size))
		q.Set("pageStartIndex", strconv.Itoa(start))
		return l.baseURL + path + "?" + q.Encode()
	}

	if page.StartIndex > 0 {
		links = append(links, Link{Rel: "previous " + noun, Href: at(max(0, page.StartIndex-page.Size)), Type: http.MethodGet})
	}
	if count > int64(page.StartIndex+page.Size) {
		links = append(links, Link{Rel: "next " + noun, Href: at(page.StartIndex + page.Size), Type: http.MethodGet})
	}
	return links
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"errors":[{"message":"something went wrong in the server, please try again"}]}`, http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, b)
}

func writeRaw(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
