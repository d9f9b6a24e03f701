package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
)

// List fetches every entity of type T.
func List[T catalog.Entity](ctx context.Context, c *Client) ([]T, error) {
	kind := catalog.KindOf[T]()
	body, _, err := c.do(ctx, request{
		op:     "list",
		kind:   kind,
		method: http.MethodGet,
		path:   "/" + kind.String(),
	})
	if err != nil {
		return nil, err
	}

	var items []T
	if err := DecodeEnvelope(body, &items); err != nil {
		return nil, &FetchError{Op: "list", Kind: kind, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches one entity by id.
func Get[T catalog.Entity](ctx context.Context, c *Client, id int64) (T, error) {
	var item T
	kind := catalog.KindOf[T]()
	body, _, err := c.do(ctx, request{
		op:     "get",
		kind:   kind,
		id:     id,
		method: http.MethodGet,
		path:   itemPath(kind, id),
	})
	if err != nil {
		return item, err
	}
	if err := DecodeEnvelope(body, &item); err != nil {
		return item, &FetchError{Op: "get", Kind: kind, ID: id, Err: err}
	}
	return item, nil
}

// Create posts a new entity as multipart form data, with an optional image.
func Create[T catalog.Entity](ctx context.Context, c *Client, fields catalog.Fields, image *catalog.Image) (T, error) {
	kind := catalog.KindOf[T]()
	return send[T](ctx, c, "create", kind, 0, http.MethodPost, "/"+kind.String(), "", fields, image)
}

// Update replaces an entity's fields. By default it is sent as POST with
// _method=PUT because multipart PUT bodies are rejected by some stacks.
func Update[T catalog.Entity](ctx context.Context, c *Client, id int64, fields catalog.Fields, image *catalog.Image) (T, error) {
	kind := catalog.KindOf[T]()
	if c.directPUT {
		return send[T](ctx, c, "update", kind, id, http.MethodPut, itemPath(kind, id), "", fields, image)
	}
	return send[T](ctx, c, "update", kind, id, http.MethodPost, itemPath(kind, id), http.MethodPut, fields, image)
}

// Delete removes an entity by id.
func Delete[T catalog.Entity](ctx context.Context, c *Client, id int64) error {
	kind := catalog.KindOf[T]()
	tok, err := c.bearer("delete", kind)
	if err != nil {
		return err
	}
	_, _, err = c.do(ctx, request{
		op:     "delete",
		kind:   kind,
		id:     id,
		method: http.MethodDelete,
		path:   itemPath(kind, id),
		token:  tok,
	})
	return err
}

func send[T catalog.Entity](ctx context.Context, c *Client, op string, kind catalog.Kind, id int64, method, path, override string, fields catalog.Fields, image *catalog.Image) (T, error) {
	var item T
	if err := fields.Validate(); err != nil {
		return item, err
	}
	tok, err := c.bearer(op, kind)
	if err != nil {
		return item, err
	}

	body, contentType, err := encodeForm(fields, image, override)
	if err != nil {
		return item, &FetchError{Op: op, Kind: kind, ID: id, Err: err}
	}

	resp, _, err := c.do(ctx, request{
		op:          op,
		kind:        kind,
		id:          id,
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
		token:       tok,
	})
	if err != nil {
		return item, err
	}
	if len(resp) == 0 {
		return item, nil
	}
	if err := DecodeEnvelope(resp, &item); err != nil {
		return item, &FetchError{Op: op, Kind: kind, ID: id, Err: err}
	}
	return item, nil
}

func (c *Client) ListCoffees(ctx context.Context) ([]catalog.Coffee, error) {
	return List[catalog.Coffee](ctx, c)
}

func (c *Client) GetCoffee(ctx context.Context, id int64) (catalog.Coffee, error) {
	return Get[catalog.Coffee](ctx, c, id)
}

func (c *Client) CreateCoffee(ctx context.Context, fields catalog.Fields, image *catalog.Image) (catalog.Coffee, error) {
	return Create[catalog.Coffee](ctx, c, fields, image)
}

func (c *Client) UpdateCoffee(ctx context.Context, id int64, fields catalog.Fields, image *catalog.Image) (catalog.Coffee, error) {
	return Update[catalog.Coffee](ctx, c, id, fields, image)
}

func (c *Client) DeleteCoffee(ctx context.Context, id int64) error {
	return Delete[catalog.Coffee](ctx, c, id)
}

func (c *Client) ListFoods(ctx context.Context) ([]catalog.Food, error) {
	return List[catalog.Food](ctx, c)
}

func (c *Client) GetFood(ctx context.Context, id int64) (catalog.Food, error) {
	return Get[catalog.Food](ctx, c, id)
}

func (c *Client) CreateFood(ctx context.Context, fields catalog.Fields, image *catalog.Image) (catalog.Food, error) {
	return Create[catalog.Food](ctx, c, fields, image)
}

func (c *Client) UpdateFood(ctx context.Context, id int64, fields catalog.Fields, image *catalog.Image) (catalog.Food, error) {
	return Update[catalog.Food](ctx, c, id, fields, image)
}

func (c *Client) DeleteFood(ctx context.Context, id int64) error {
	return Delete[catalog.Food](ctx, c, id)
}
