// internal/pkg/apiclient/errors.go
package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	xerrors "taskdesk/internal/pkg/errors"
)

// APIError is a non-2xx backend answer, with the server's message passed
// through unchanged.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Title   string
	// Errors holds field-level validation messages, when the server sent them.
	Errors map[string][]string
}

func (e *APIError) Error() string {
	msg := e.UserMessage()
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), msg)
}

// Unwrap maps the status onto the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return xerrors.ErrSessionExpired
	case http.StatusForbidden:
		return xerrors.ErrForbidden
	case http.StatusNotFound:
		return xerrors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return xerrors.ErrInvalidInput
	case http.StatusConflict:
		return xerrors.ErrConflict
	default:
		return xerrors.ErrRequestFailed
	}
}

// UserMessage picks what to show a user: flattened validation errors, else
// the server message, else the problem title, else a generic line.
func (e *APIError) UserMessage() string {
	if msg := xerrors.FlattenValidation(e.Errors); msg != "" {
		return msg
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// maxPlainMessage caps how much of a non-JSON error body reaches the user.
const maxPlainMessage = 200

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type errorBody struct {
	Message string                     `json:"message"`
	Title   string                     `json:"title"`
	Error   string                     `json:"error"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func newAPIError(method, path string, status int, raw []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		// plain-text or empty bodies
		e.Message = truncateRunes(strings.TrimSpace(string(raw)), maxPlainMessage)
		return e
	}

	e.Message = body.Message
	if e.Message == "" {
		e.Message = body.Error
	}
	e.Title = body.Title

	if len(body.Errors) > 0 {
		e.Errors = make(map[string][]string, len(body.Errors))
		for field, rawMsgs := range body.Errors {
			var many []string
			if err := json.Unmarshal(rawMsgs, &many); err == nil {
				e.Errors[field] = many
				continue
			}
			var one string
			if err := json.Unmarshal(rawMsgs, &one); err == nil {
				e.Errors[field] = []string{one}
			}
		}
	}
	return e
}
