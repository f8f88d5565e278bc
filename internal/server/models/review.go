package models

import "time"

type Review struct {
	ID          int64     `json:"id"`
	MovieID     int64     `json:"movieId"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReviewFilter narrows the reviews of one movie. A nil Rating matches all.
type ReviewFilter struct {
	Page
	MovieID int64
	Rating  *int
}

// ReviewPatch holds the fields of a partial update; nil or empty values are left untouched.
type ReviewPatch struct {
	Title       string
	Description string
	Rating      *int
}
