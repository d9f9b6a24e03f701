// Package menu drives the storefront's list and detail views: it loads the
// catalog lists, resolves a selected item with a server lookup that falls back
// to the loaded list, and tracks which view is showing.
package menu

import (
	"context"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
)

// Source tells where a resolved item came from.
type Source int

const (
	NotFound Source = iota
	FromServer
	FromCache
)

func (s Source) String() string {
	switch s {
	case FromServer:
		return "server"
	case FromCache:
		return "cache"
	}
	return "not found"
}

// ErrIDMismatch marks a server answer for a different id than requested.
var ErrIDMismatch = errors.New("server returned a different id")

// FetchFunc looks up a single entity by id.
type FetchFunc[T catalog.Entity] func(ctx context.Context, id int64) (T, error)

// Resolution is the outcome of Resolve. Err holds the lookup error when the
// item was recovered from the local list or could not be found at all.
type Resolution[T catalog.Entity] struct {
	Source Source
	Item   T
	Err    error
}

func (r Resolution[T]) Found() bool {
	return r.Source != NotFound
}

// Resolve asks the server for id first. If that fails, local is scanned and a
// match is returned unmodified. Resolve never returns a hard error: a miss
// is reported as NotFound.
func Resolve[T catalog.Entity](ctx context.Context, fetch FetchFunc[T], id int64, local []T) Resolution[T] {
	item, err := fetch(ctx, id)
	if err == nil {
		if item.GetID() == id {
			return Resolution[T]{Source: FromServer, Item: item}
		}
		err = errors.Wrapf(ErrIDMismatch, "asked for %d, got %d", id, item.GetID())
	}

	for _, candidate := range local {
		if candidate.GetID() == id {
			return Resolution[T]{Source: FromCache, Item: candidate, Err: err}
		}
	}
	return Resolution[T]{Source: NotFound, Err: err}
}
