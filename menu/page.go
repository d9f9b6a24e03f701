package menu

import (
	"context"
	"slices"
	"sync"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by every call on a closed Page.
var ErrClosed = errors.New("menu page closed")

// State is the view a Page is showing.
type State int

const (
	Listing State = iota
	ResolvingDetail
	Viewing
	ItemNotFound
)

func (s State) String() string {
	switch s {
	case ResolvingDetail:
		return "resolving"
	case Viewing:
		return "viewing"
	case ItemNotFound:
		return "not found"
	}
	return "listing"
}

// Fetcher is the slice of the catalog client a Page needs.
type Fetcher interface {
	ListCoffees(ctx context.Context) ([]catalog.Coffee, error)
	ListFoods(ctx context.Context) ([]catalog.Food, error)
	GetCoffee(ctx context.Context, id int64) (catalog.Coffee, error)
	GetFood(ctx context.Context, id int64) (catalog.Food, error)
}

// Selection is the item chosen for the detail view. Exactly one of Coffee
// and Food is set once the item was found.
type Selection struct {
	Kind   catalog.Kind
	ID     int64
	Source Source
	Coffee *catalog.Coffee
	Food   *catalog.Food
	// LookupErr is the server error recovered from, if any
	LookupErr error
}

// Item returns the shared fields of the selected entity, or nil.
func (s *Selection) Item() *catalog.Item {
	switch {
	case s == nil:
		return nil
	case s.Coffee != nil:
		return &s.Coffee.Item
	case s.Food != nil:
		return &s.Food.Item
	}
	return nil
}

// Snapshot is a copy of a Page's state for rendering.
type Snapshot struct {
	State     State
	Loading   bool
	Coffees   []catalog.Coffee
	Foods     []catalog.Food
	Errors    map[catalog.Kind]error
	Selection *Selection
}

func (s Snapshot) HasErrors() bool {
	return len(s.Errors) > 0
}

// Page holds the lists and selection of one storefront view. Results that
// arrive after Close are discarded.
type Page struct {
	fetcher Fetcher
	kinds   []catalog.Kind

	mu        sync.Mutex
	closed    bool
	loading   chan struct{}
	coffees   []catalog.Coffee
	foods     []catalog.Food
	errs      map[catalog.Kind]error
	state     State
	selection *Selection
	selectGen int
}

// NewPage creates a page over the given kinds; all kinds when none are named.
func NewPage(fetcher Fetcher, kinds ...catalog.Kind) *Page {
	if len(kinds) == 0 {
		kinds = catalog.Kinds
	}
	return &Page{
		fetcher: fetcher,
		kinds:   slices.Clone(kinds),
		errs:    make(map[catalog.Kind]error),
	}
}

// Load fetches every kind of the page concurrently and returns once all of
// them finished. Failures are kept per kind and joined into the result.
func (p *Page) Load(ctx context.Context) error {
	return p.load(ctx, p.kinds)
}

// Retry reloads the kinds whose last load failed.
func (p *Page) Retry(ctx context.Context) error {
	p.mu.Lock()
	var failed []catalog.Kind
	for _, kind := range p.kinds {
		if p.errs[kind] != nil {
			failed = append(failed, kind)
		}
	}
	p.mu.Unlock()

	if len(failed) == 0 {
		return nil
	}
	return p.load(ctx, failed)
}

// Select resolves id for the detail view. A load in progress is waited for
// first so the fallback sees the fetched list.
func (p *Page) Select(ctx context.Context, kind catalog.Kind, id int64) (Selection, error) {
	if !slices.Contains(p.kinds, kind) {
		return Selection{}, errors.Wrapf(errors.ErrUnknownKind, "%q", kind)
	}
	if err := p.waitForLoad(ctx); err != nil {
		return Selection{}, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Selection{}, ErrClosed
	}
	p.selectGen++
	gen := p.selectGen
	p.state = ResolvingDetail
	p.selection = &Selection{Kind: kind, ID: id}
	coffees := slices.Clone(p.coffees)
	foods := slices.Clone(p.foods)
	p.mu.Unlock()

	sel := Selection{Kind: kind, ID: id}
	switch kind {
	case catalog.KindCoffee:
		r := Resolve(ctx, p.fetcher.GetCoffee, id, coffees)
		sel.Source, sel.LookupErr = r.Source, r.Err
		if r.Found() {
			sel.Coffee = &r.Item
		}
	case catalog.KindFood:
		r := Resolve(ctx, p.fetcher.GetFood, id, foods)
		sel.Source, sel.LookupErr = r.Source, r.Err
		if r.Found() {
			sel.Food = &r.Item
		}
	}
	if sel.LookupErr != nil {
		log.Debug().Err(sel.LookupErr).Str("kind", kind.String()).Int64("id", id).
			Stringer("source", sel.Source).Msg("detail lookup failed")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return sel, ErrClosed
	}
	if gen == p.selectGen {
		p.selection = &sel
		p.state = Viewing
		if sel.Source == NotFound {
			p.state = ItemNotFound
		}
	}
	return sel, nil
}

// Back leaves the detail view. The list of the kind that was selected is
// fetched again only when it is empty.
func (p *Page) Back(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	sel := p.selection
	p.selection = nil
	p.selectGen++
	p.state = Listing
	empty := sel != nil && p.count(sel.Kind) == 0
	p.mu.Unlock()

	if !empty {
		return nil
	}
	return p.load(ctx, []catalog.Kind{sel.Kind})
}

// Close detaches the page. In-flight loads and lookups complete but their
// results are dropped.
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := Snapshot{
		State:   p.state,
		Loading: p.loading != nil,
		Coffees: slices.Clone(p.coffees),
		Foods:   slices.Clone(p.foods),
		Errors:  make(map[catalog.Kind]error, len(p.errs)),
	}
	for kind, err := range p.errs {
		if err != nil {
			snap.Errors[kind] = err
		}
	}
	if p.selection != nil {
		sel := *p.selection
		snap.Selection = &sel
	}
	return snap
}

// count returns the length of kind's list. Callers hold p.mu.
func (p *Page) count(kind catalog.Kind) int {
	if kind == catalog.KindFood {
		return len(p.foods)
	}
	return len(p.coffees)
}

// waitForLoad blocks until no load is running.
func (p *Page) waitForLoad(ctx context.Context) error {
	for {
		p.mu.Lock()
		ch := p.loading
		p.mu.Unlock()
		if ch == nil {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type listResult struct {
	kind    catalog.Kind
	coffees []catalog.Coffee
	foods   []catalog.Food
	err     error
}

func (p *Page) load(ctx context.Context, kinds []catalog.Kind) error {
	// one load at a time; a caller arriving mid-load waits, then loads again
	var done chan struct{}
	for done == nil {
		if err := p.waitForLoad(ctx); err != nil {
			return err
		}
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return ErrClosed
		}
		if p.loading == nil {
			done = make(chan struct{})
			p.loading = done
		}
		p.mu.Unlock()
	}

	results := make([]listResult, len(kinds))
	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.fetch(ctx, kind)
		}()
	}
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = nil
	close(done)
	if p.closed {
		return ErrClosed
	}

	var errs []error
	for _, r := range results {
		p.errs[r.kind] = r.err
		if r.err != nil {
			errs = append(errs, r.err)
			log.Warn().Err(r.err).Str("kind", r.kind.String()).Msg("menu list failed")
			continue
		}
		switch r.kind {
		case catalog.KindCoffee:
			p.coffees = r.coffees
		case catalog.KindFood:
			p.foods = r.foods
		}
	}
	return errors.Join(errs...)
}

func (p *Page) fetch(ctx context.Context, kind catalog.Kind) listResult {
	r := listResult{kind: kind}
	switch kind {
	case catalog.KindCoffee:
		r.coffees, r.err = p.fetcher.ListCoffees(ctx)
	case catalog.KindFood:
		r.foods, r.err = p.fetcher.ListFoods(ctx)
	default:
		r.err = errors.Wrapf(errors.ErrUnknownKind, "%q", kind)
	}
	return r
}
