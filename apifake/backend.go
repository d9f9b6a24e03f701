// Package apifake is an in-memory implementation of the café REST backend.
// It serves the same contract as the production backend (lists, lookups,
// multipart create/update with the _method override, bearer-protected
// writes, login and register) and is used by tests and local development.
package apifake

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"golang.org/x/crypto/bcrypt"
)

// Request is a record of one call the backend received.
type Request struct {
	Method      string
	Path        string
	Override    string // value of the _method form field, if any
	Authorized  bool   // a valid bearer token was presented
	ContentType string
}

type entry struct {
	catalog.Item
	Ingredients []string
	Caffeine    string
}

// Backend is an http.Handler serving the backend contract from memory.
type Backend struct {
	mu         sync.RWMutex
	mux        *http.ServeMux
	items      map[catalog.Kind]map[int64]*entry
	nextID     map[catalog.Kind]int64
	users      map[string]string // username -> bcrypt hash
	requests   []Request
	uploads    map[string][]byte
	failGets   bool
	secret     []byte
	tokenTTL   time.Duration
	envelope   bool
	bcryptCost int
	now        func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithEnvelope wraps every successful payload as {"data": ...}.
func WithEnvelope() Option {
	return func(b *Backend) {
		b.envelope = true
	}
}

// WithSecret sets the HMAC key used to sign access tokens.
func WithSecret(secret []byte) Option {
	return func(b *Backend) {
		b.secret = secret
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.tokenTTL = ttl
	}
}

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// WithBcryptCost lowers hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(b *Backend) {
		b.bcryptCost = cost
	}
}

// New creates an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		mux:        http.NewServeMux(),
		items:      make(map[catalog.Kind]map[int64]*entry),
		nextID:     make(map[catalog.Kind]int64),
		users:      make(map[string]string),
		uploads:    make(map[string][]byte),
		secret:     []byte("kopikata-dev-secret"),
		tokenTTL:   time.Hour,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, kind := range catalog.Kinds {
		b.items[kind] = make(map[int64]*entry)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.initRoutes()
	return b
}

func (b *Backend) initRoutes() {
	b.mux.HandleFunc("POST /login", b.loginHandler)
	b.mux.HandleFunc("POST /register", b.registerHandler)
	b.mux.HandleFunc("GET /uploads/{name}", b.uploadHandler)

	b.mux.HandleFunc("GET /{kind}", b.listHandler)
	b.mux.HandleFunc("GET /{kind}/{id}", b.getHandler)
	b.mux.HandleFunc("POST /{kind}", b.requireToken(b.createHandler))
	b.mux.HandleFunc("POST /{kind}/{id}", b.requireToken(b.overrideHandler))
	b.mux.HandleFunc("PUT /{kind}/{id}", b.requireToken(b.updateHandler))
	b.mux.HandleFunc("DELETE /{kind}/{id}", b.requireToken(b.deleteHandler))
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

// FailLookups makes GET /{kind}/{id} answer 500 while enabled; lists keep working.
func (b *Backend) FailLookups(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failGets = fail
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Request(nil), b.requests...)
}

// Upload returns the bytes stored for an image_url, if any.
func (b *Backend) Upload(imageURL string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.uploads[imageURL]
	return data, ok
}

func (b *Backend) uploadHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := b.Upload(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func (b *Backend) record(r *http.Request, authorized bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Override:    r.FormValue("_method"),
		Authorized:  authorized,
		ContentType: r.Header.Get("Content-Type"),
	})
}

// sorted returns the entries of kind ordered by id. Callers hold b.mu.
func (b *Backend) sorted(kind catalog.Kind) []*entry {
	out := make([]*entry, 0, len(b.items[kind]))
	for _, e := range b.items[kind] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// render converts an entry to its wire shape for kind
func render(kind catalog.Kind, e *entry) any {
	if kind == catalog.KindFood {
		return catalog.Food{Item: e.Item}
	}
	return catalog.Coffee{Item: e.Item, Ingredients: e.Ingredients, Caffeine: e.Caffeine}
}

func (b *Backend) writeData(w http.ResponseWriter, status int, payload any) {
	if b.envelope {
		payload = map[string]any{"data": payload}
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": status, "message": message})
}

func parseKind(w http.ResponseWriter, r *http.Request) (catalog.Kind, bool) {
	raw := r.PathValue("kind")
	if raw != strings.ToLower(raw) || (raw != string(catalog.KindCoffee) && raw != string(catalog.KindFood)) {
		writeMessage(w, http.StatusNotFound, "unknown resource "+raw)
		return "", false
	}
	return catalog.Kind(raw), true
}
