package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/moviereviews/internal/common"
	"github.com/dmitrijs2005/moviereviews/internal/logging"
)

type apiError struct {
	Message string `json:"message"`
}

type errorBody struct {
	Errors []apiError `json:"errors"`
}

// validationError carries one message per rejected input field.
type validationError struct {
	messages []string
}

func (e *validationError) Error() string {
	if len(e.messages) == 0 {
		return "invalid input"
	}
	return e.messages[0]
}

func invalid(messages ...string) error {
	return &validationError{messages: messages}
}

// statusFor maps an error to its HTTP status and the messages safe to show
// the client. Unknown errors become a generic 500.
func statusFor(err error) (int, []string) {
	var ve *validationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.messages
	}

	for _, m := range []struct {
		target error
		status int
	}{
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{common.ErrWrongCredentials, http.StatusUnauthorized},
		{common.ErrWrongRefreshToken, http.StatusUnauthorized},
		{common.ErrUnauthorized, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrUsernameTaken, http.StatusBadRequest},
		{common.ErrWebhookAlreadySet, http.StatusBadRequest},
		{common.ErrRateLimited, http.StatusTooManyRequests},
	} {
		if errors.Is(err, m.target) {
			return m.status, []string{m.target.Error()}
		}
	}

	if errors.Is(err, common.ErrNotUnique) {
		return http.StatusBadRequest, []string{common.ErrNotUnique.Error()}
	}

	return http.StatusInternalServerError, []string{common.ErrorInternal.Error()}
}

func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status, messages := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()))
	}

	body := errorBody{Errors: make([]apiError, 0, len(messages))}
	for _, m := range messages {
		body.Errors = append(body.Errors, apiError{Message: m})
	}
	writeJSON(w, status, body)
}
