package models

import "time"

type Movie struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Year           string    `json:"year"`
	ImageCoverLink string    `json:"imageCoverLink,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// MovieFilter narrows a movie listing. Year is ignored when empty.
type MovieFilter struct {
	Page
	Year string
}

// MoviePatch holds the fields of a partial update; empty strings are left untouched.
type MoviePatch struct {
	Name           string
	Year           string
	ImageCoverLink string
}
