package browserstate

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/jrsteele09/go-cafe-storefront/session"
)

// FileRepo keeps each browser's session as <dir>/<browserID>.json so admin
// logins survive a restart of the storefront.
type FileRepo struct {
	dir    string
	mu     sync.Mutex
	stores map[string]*session.FileStore
}

func NewFileRepo(dir string) *FileRepo {
	return &FileRepo{
		dir:    dir,
		stores: make(map[string]*session.FileStore),
	}
}

func (r *FileRepo) Store(browserID string) (session.Store, error) {
	if err := checkID(browserID); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[browserID]
	if !ok {
		store = session.NewFileStore(r.path(browserID))
		r.stores[browserID] = store
	}
	return store, nil
}

func (r *FileRepo) Delete(browserID string) error {
	if err := checkID(browserID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stores, browserID)
	if err := os.Remove(r.path(browserID)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrSessionStore, "removing %s: %v", browserID, err)
	}
	return nil
}

func (r *FileRepo) path(browserID string) string {
	return filepath.Join(r.dir, browserID+".json")
}
