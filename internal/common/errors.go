// Package common defines shared constants and sentinel errors used across
// the API layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("resource could not be found")
	ErrNotUnique  = errors.New("entry already exists and needs to change")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("something went wrong in the server, please try again")

	// Auth errors.
	ErrUnauthenticated   = errors.New("you need to be authenticated to access this resource")
	ErrWrongCredentials  = errors.New("wrong credentials, please try again")
	ErrWrongRefreshToken = errors.New("you have provided an incorrect refresh token or user id, please login again instead")
	ErrUnauthorized      = errors.New("you are not authorized to change this resource")

	// Account/resource specific errors.
	ErrUsernameTaken     = errors.New("username is already taken, please test another")
	ErrWebhookAlreadySet = errors.New("a movie webhook is already registered for this account")

	// Transport errors.
	ErrRateLimited = errors.New("too many requests, please try again later")
)
