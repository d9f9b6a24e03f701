package server

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 5 << 20

// AdminCreateHandler creates an item from the submitted form
func (s *Server) AdminCreateHandler() http.HandlerFunc {
	return s.productMutation("Menu berhasil ditambahkan", func(ctx context.Context, c *api.Client, kind catalog.Kind, _ int64, f catalog.Fields, img *catalog.Image) error {
		var err error
		switch kind {
		case catalog.KindCoffee:
			_, err = c.CreateCoffee(ctx, f, img)
		case catalog.KindFood:
			_, err = c.CreateFood(ctx, f, img)
		}
		return err
	})
}

// AdminUpdateHandler replaces an item's fields from the submitted form
func (s *Server) AdminUpdateHandler() http.HandlerFunc {
	return s.productMutation("Menu berhasil diperbarui", func(ctx context.Context, c *api.Client, kind catalog.Kind, id int64, f catalog.Fields, img *catalog.Image) error {
		var err error
		switch kind {
		case catalog.KindCoffee:
			_, err = c.UpdateCoffee(ctx, id, f, img)
		case catalog.KindFood:
			_, err = c.UpdateFood(ctx, id, f, img)
		}
		return err
	})
}

// AdminDeleteHandler deletes an item
func (s *Server) AdminDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, id, ok := productTarget(w, r, true)
		if !ok {
			return
		}

		c := s.clientFor(r)
		var err error
		switch kind {
		case catalog.KindCoffee:
			err = c.DeleteCoffee(r.Context(), id)
		case catalog.KindFood:
			err = c.DeleteFood(r.Context(), id)
		}
		if err != nil {
			s.mutationFailed(w, r, c, kind, err)
			return
		}
		redirectWithNotice(w, r, productsPath(kind.String()), "Menu berhasil dihapus")
	}
}

type mutateFunc func(ctx context.Context, c *api.Client, kind catalog.Kind, id int64, f catalog.Fields, img *catalog.Image) error

// productMutation wraps the form handling shared by create and update. The
// id is only read when the route has one.
func (s *Server) productMutation(notice string, mutate mutateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, id, ok := productTarget(w, r, r.PathValue("id") != "")
		if !ok {
			return
		}

		fields, image, cleanup, err := readProductForm(r, kind)
		defer cleanup()
		back := productsPath(kind.String())
		if err != nil {
			redirectWithError(w, r, back, userMessage(err))
			return
		}

		c := s.clientFor(r)
		if err := mutate(r.Context(), c, kind, id, fields, image); err != nil {
			s.mutationFailed(w, r, c, kind, err)
			return
		}
		redirectWithNotice(w, r, back, notice)
	}
}

// mutationFailed reports a failed write. A missing or rejected token sends
// the admin back to the login page with the session cleared.
func (s *Server) mutationFailed(w http.ResponseWriter, r *http.Request, c *api.Client, kind catalog.Kind, err error) {
	log.Warn().Err(err).Str("kind", kind.String()).Msg("catalog write failed")
	if errors.Is(err, api.ErrAuth) {
		if clearErr := c.Logout(); clearErr != nil {
			log.Err(clearErr).Msg("failed to clear rejected session")
		}
		redirectWithError(w, r, RouteAdminLogin, "Sesi berakhir, silakan login kembali")
		return
	}
	redirectWithError(w, r, productsPath(kind.String()), userMessage(err))
}

func productTarget(w http.ResponseWriter, r *http.Request, withID bool) (catalog.Kind, int64, bool) {
	kind, err := catalog.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return "", 0, false
	}
	if !withID {
		return kind, 0, true
	}
	id, err := catalog.ParseID(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return "", 0, false
	}
	return kind, id, true
}

// readProductForm reads the admin form. The returned cleanup closes the
// uploaded file and is always safe to call.
func readProductForm(r *http.Request, kind catalog.Kind) (catalog.Fields, *catalog.Image, func(), error) {
	cleanup := func() {}
	err := r.ParseMultipartForm(maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return catalog.Fields{}, nil, cleanup, &api.ValidationError{Field: "form", Reason: "unreadable form data"}
	}

	price, err := catalog.ParsePrice(r.FormValue("price"))
	if err != nil {
		return catalog.Fields{}, nil, cleanup, err
	}
	fields := catalog.Fields{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
	}
	if kind == catalog.KindCoffee {
		fields.Ingredients = catalog.SplitIngredients(r.FormValue("ingredients"))
		fields.Caffeine = r.FormValue("caffeine")
	}
	if err := fields.Validate(); err != nil {
		return catalog.Fields{}, nil, cleanup, err
	}

	var image *catalog.Image
	file, header, err := r.FormFile("image")
	switch {
	case err == nil && header.Size > 0:
		image = imageFrom(file, header)
		cleanup = func() { _ = file.Close() }
	case err == nil:
		_ = file.Close()
	}
	return fields, image, cleanup, nil
}

func imageFrom(file multipart.File, header *multipart.FileHeader) *catalog.Image {
	return &catalog.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}
}
