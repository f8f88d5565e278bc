// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. RefreshTokenHash is empty until the first
// successful authentication.
type User struct {
	ID               int64     `db:"id"`
	UserName         string    `db:"username"`
	PasswordHash     string    `db:"password_hash"`
	RefreshTokenHash string    `db:"refresh_token_hash"`
	PermissionLevel  string    `db:"permission_level"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
