package xerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common reusable client errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidInput          = errors.New("invalid input")
	ErrConflict              = errors.New("conflict: resource already exists")
	ErrSessionExpired        = errors.New("session expired or invalid")
	ErrInvalidServerResponse = errors.New("invalid server response")
	ErrNetwork               = errors.New("network error")
	ErrRequestFailed         = errors.New("request failed")
	ErrAlreadyAuthenticated  = errors.New("already authenticated")
	ErrNotAuthenticated      = errors.New("not authenticated")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}

// FlattenValidation joins field-level validation messages into one line.
// Fields are visited in sorted order so the output is stable.
func FlattenValidation(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msgs []string
	for _, k := range keys {
		for _, m := range fields[k] {
			if m = strings.TrimSpace(m); m != "" {
				msgs = append(msgs, m)
			}
		}
	}
	return strings.Join(msgs, ", ")
}
