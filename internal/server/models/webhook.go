package models

import "time"

// Webhook is a user's subscription to movie-created events. Token is echoed
// back in every delivery so the receiver can authenticate the call.
type Webhook struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
