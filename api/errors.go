package api

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
)

var (
	// ErrFetch matches every FetchError
	ErrFetch = errors.New("backend request failed")
	// ErrAuth matches a missing token and a backend 401/403
	ErrAuth = errors.New("not authenticated")
	// ErrNotFound matches a backend 404
	ErrNotFound = errors.ErrNotFound
	// ErrValidation matches every ValidationError
	ErrValidation = catalog.ErrValidation
)

// ValidationError is returned before any network call when input is unusable.
type ValidationError = catalog.ValidationError

// FetchError reports a backend call that did not succeed: either a non-2xx
// status (StatusCode set) or a transport/decoding failure (Err set).
type FetchError struct {
	Op         string
	Kind       catalog.Kind
	ID         int64
	StatusCode int
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	target := e.Op
	if e.Kind != "" {
		target += " " + e.Kind.String()
	}
	if e.ID != 0 {
		target += fmt.Sprintf(" #%d", e.ID)
	}
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: backend returned %d: %s", target, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned %d %s", target, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", target, e.Err)
	}
	return target + ": failed"
}

func (e *FetchError) Unwrap() []error {
	errs := []error{ErrFetch}
	switch e.StatusCode {
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		errs = append(errs, ErrAuth)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// AuthError is returned when a mutating call is attempted without a token.
// No request is sent in that case.
type AuthError struct {
	Op   string
	Kind catalog.Kind
}

func (e *AuthError) Error() string {
	if e.Kind == "" {
		return e.Op + ": not authenticated"
	}
	return fmt.Sprintf("%s %s: not authenticated", e.Op, e.Kind)
}

func (e *AuthError) Unwrap() []error {
	return []error{ErrAuth, errors.ErrNoToken}
}

// Message picks the text to show a user for err: the backend's own message
// when it sent one, otherwise the error string.
func Message(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
