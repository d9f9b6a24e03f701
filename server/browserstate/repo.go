// Package browserstate keeps one session store per browser. A browser is
// identified by the UUID held in its cookie.
package browserstate

import (
	"github.com/google/uuid"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/jrsteele09/go-cafe-storefront/session"
)

type Repo interface {
	// Store returns the session store for browserID, creating it on first use.
	Store(browserID string) (session.Store, error)
	// Delete forgets everything held for browserID.
	Delete(browserID string) error
}

// NewBrowserID returns a fresh browser identifier.
func NewBrowserID() string {
	return uuid.NewString()
}

// ValidBrowserID reports whether id could have been issued by NewBrowserID.
func ValidBrowserID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

func checkID(id string) error {
	if !ValidBrowserID(id) {
		return errors.Wrapf(errors.ErrUnknownBrowser, "%q", id)
	}
	return nil
}
