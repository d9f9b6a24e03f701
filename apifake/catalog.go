package apifake

import (
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/utils"
)

const maxUploadBytes = 10 << 20

// Seed inserts an item directly and returns its id.
func (b *Backend) Seed(kind catalog.Kind, f catalog.Fields, imageURL string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insert(kind, f, utils.NonEmpty(imageURL))
}

// Count reports how many items of kind are stored.
func (b *Backend) Count(kind catalog.Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items[kind])
}

// insert stores a new entry. Callers hold b.mu.
func (b *Backend) insert(kind catalog.Kind, f catalog.Fields, imageURL *string) int64 {
	b.nextID[kind]++
	id := b.nextID[kind]
	e := &entry{
		Item: catalog.Item{
			ID:          id,
			Name:        f.Name,
			Description: f.Description,
			Price:       f.Price,
			ImageURL:    imageURL,
			Category:    utils.NonEmpty(f.Category),
			CreatedAt:   utils.Ptr(b.now().UTC().Truncate(time.Second)),
		},
	}
	if kind == catalog.KindCoffee {
		e.Ingredients = f.Ingredients
		e.Caffeine = f.Caffeine
	}
	b.items[kind][id] = e
	return id
}

func (b *Backend) listHandler(w http.ResponseWriter, r *http.Request) {
	b.record(r, false)
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	b.mu.RLock()
	out := make([]any, 0, len(b.items[kind]))
	for _, e := range b.sorted(kind) {
		out = append(out, render(kind, e))
	}
	b.mu.RUnlock()
	b.writeData(w, http.StatusOK, out)
}

func (b *Backend) getHandler(w http.ResponseWriter, r *http.Request) {
	b.record(r, false)
	kind, id, ok := parseTarget(w, r)
	if !ok {
		return
	}
	b.mu.RLock()
	failing := b.failGets
	e, found := b.items[kind][id]
	var payload any
	if found {
		payload = render(kind, e)
	}
	b.mu.RUnlock()

	switch {
	case failing:
		writeMessage(w, http.StatusInternalServerError, "lookup unavailable")
	case !found:
		writeMessage(w, http.StatusNotFound, kind.Singular()+" not found")
	default:
		b.writeData(w, http.StatusOK, payload)
	}
}

func (b *Backend) createHandler(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(w, r)
	if !ok {
		return
	}
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	imageURL, ok := b.readImage(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	id := b.insert(kind, f, imageURL)
	payload := render(kind, b.items[kind][id])
	b.mu.Unlock()
	b.writeData(w, http.StatusCreated, payload)
}

// overrideHandler serves POST /{kind}/{id}, which is only meaningful with _method=PUT.
func (b *Backend) overrideHandler(w http.ResponseWriter, r *http.Request) {
	if !strings.EqualFold(r.FormValue("_method"), http.MethodPut) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	b.updateHandler(w, r)
}

func (b *Backend) updateHandler(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := parseTarget(w, r)
	if !ok {
		return
	}
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	imageURL, ok := b.readImage(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	e, found := b.items[kind][id]
	if found {
		e.Name = f.Name
		e.Description = f.Description
		e.Price = f.Price
		e.Category = utils.NonEmpty(f.Category)
		if imageURL != nil {
			e.ImageURL = imageURL
		}
		if kind == catalog.KindCoffee {
			e.Ingredients = f.Ingredients
			e.Caffeine = f.Caffeine
		}
	}
	var payload any
	if found {
		payload = render(kind, e)
	}
	b.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, kind.Singular()+" not found")
		return
	}
	b.writeData(w, http.StatusOK, payload)
}

func (b *Backend) deleteHandler(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := parseTarget(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	_, found := b.items[kind][id]
	delete(b.items[kind], id)
	b.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, kind.Singular()+" not found")
		return
	}
	writeMessage(w, http.StatusOK, kind.Singular()+" deleted")
}

func parseTarget(w http.ResponseWriter, r *http.Request) (catalog.Kind, int64, bool) {
	kind, ok := parseKind(w, r)
	if !ok {
		return "", 0, false
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusNotFound, kind.Singular()+" not found")
		return "", 0, false
	}
	return kind, id, true
}

// readFields reads the multipart form fields the storefront sends.
func readFields(w http.ResponseWriter, r *http.Request) (catalog.Fields, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "expected multipart/form-data")
		return catalog.Fields{}, false
	}
	f := catalog.Fields{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    r.FormValue("category"),
		Caffeine:    r.FormValue("caffeine"),
		Ingredients: r.MultipartForm.Value["ingredients[]"],
	}
	price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
	if err != nil || price < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":   http.StatusBadRequest,
			"messages": map[string]string{"error": "The price field must contain a non-negative integer."},
		})
		return catalog.Fields{}, false
	}
	f.Price = price
	if f.Name == "" || f.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":   http.StatusBadRequest,
			"messages": map[string]string{"error": "The name and description fields are required."},
		})
		return catalog.Fields{}, false
	}
	return f, true
}

// readImage stores an uploaded image part, if present, and returns its URL.
func (b *Backend) readImage(w http.ResponseWriter, r *http.Request) (*string, bool) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unreadable image")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "unreadable image")
		return nil, false
	}
	url := "/uploads/" + uuid.NewString() + path.Ext(header.Filename)
	b.mu.Lock()
	b.uploads[url] = data
	b.mu.Unlock()
	return &url, true
}
