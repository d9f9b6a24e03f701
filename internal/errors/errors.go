package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront
var (
	// Session errors
	ErrNoToken        = errors.New("no session token")
	ErrSessionStore   = errors.New("session store failure")
	ErrUnknownBrowser = errors.New("unknown browser")

	// Catalog errors
	ErrUnknownKind  = errors.New("unknown catalog kind")
	ErrInvalidID    = errors.New("invalid catalog id")
	ErrInvalidPrice = errors.New("invalid price")

	// Backend errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadEnvelope  = errors.New("malformed response envelope")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers only import this package
func New(text string) error {
	return errors.New(text)
}

// Join is errors.Join
func Join(errs ...error) error {
	return errors.Join(errs...)
}
