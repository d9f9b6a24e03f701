package browserstate

import (
	"sync"

	"github.com/jrsteele09/go-cafe-storefront/session"
)

// InMemoryRepo holds browser sessions for the lifetime of the process.
type InMemoryRepo struct {
	mu     sync.RWMutex
	stores map[string]*session.MemoryStore // browserID -> store
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		stores: make(map[string]*session.MemoryStore),
	}
}

func (r *InMemoryRepo) Store(browserID string) (session.Store, error) {
	if err := checkID(browserID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	store, ok := r.stores[browserID]
	r.mu.RUnlock()
	if ok {
		return store, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok = r.stores[browserID]; !ok {
		store = session.NewMemoryStore()
		r.stores[browserID] = store
	}
	return store, nil
}

func (r *InMemoryRepo) Delete(browserID string) error {
	if err := checkID(browserID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, browserID)
	return nil
}
