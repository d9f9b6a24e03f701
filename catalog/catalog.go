// Package catalog holds the café's product model: coffees and foods as the
// REST backend serves them, plus the form fields used to create or edit them.
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/jrsteele09/go-cafe-storefront/internal/utils"
)

// Kind names an entity kind; the value doubles as the REST path segment.
type Kind string

const (
	KindCoffee Kind = "coffees"
	KindFood   Kind = "foods"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindCoffee, KindFood}

// ParseKind accepts singular or plural names in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coffee", "coffees":
		return KindCoffee, nil
	case "food", "foods":
		return KindFood, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownKind, "%q", s)
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Singular() string {
	return strings.TrimSuffix(string(k), "s")
}

// Label is the storefront display name for the kind
func (k Kind) Label() string {
	if k == KindFood {
		return "Makanan"
	}
	return "Minuman"
}

// ParseID parses a route id; ids are server-assigned positive integers.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidID, "%q", s)
	}
	return id, nil
}

// Item is the shape shared by every catalog entity. Price is in whole Rupiah.
type Item struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Category    *string    `json:"category,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (i Item) GetID() int64 {
	return i.ID
}

func (i Item) CategoryName() string {
	return utils.Value(i.Category)
}

// Fields returns the editable fields of the item, for prefilling edit forms
func (i Item) Fields() Fields {
	return Fields{
		Name:        i.Name,
		Description: i.Description,
		Price:       i.Price,
		Category:    i.CategoryName(),
	}
}

// wireItem mirrors Item with the lenient scalar types the backend may send.
type wireItem struct {
	ID          flexInt    `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       flexInt    `json:"price"`
	ImageURL    *string    `json:"image_url"`
	Category    *string    `json:"category"`
	CreatedAt   *timestamp `json:"created_at"`
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Price < 0 {
		return errors.Wrapf(errors.ErrInvalidPrice, "negative price %d", int64(w.Price))
	}
	*i = Item{
		ID:          int64(w.ID),
		Name:        w.Name,
		Description: w.Description,
		Price:       int64(w.Price),
		ImageURL:    nonEmptyPtr(w.ImageURL),
		Category:    nonEmptyPtr(w.Category),
	}
	if w.CreatedAt != nil && !time.Time(*w.CreatedAt).IsZero() {
		i.CreatedAt = utils.Ptr(time.Time(*w.CreatedAt))
	}
	return nil
}

// Coffee is a drink; it may carry its ingredient list and caffeine level.
type Coffee struct {
	Item
	Ingredients []string `json:"ingredients,omitempty"`
	Caffeine    string   `json:"caffeine,omitempty"`
}

func (c *Coffee) UnmarshalJSON(data []byte) error {
	if err := c.Item.UnmarshalJSON(data); err != nil {
		return err
	}
	var extra struct {
		Ingredients flexStrings `json:"ingredients"`
		Caffeine    string      `json:"caffeine"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	c.Ingredients = extra.Ingredients
	c.Caffeine = extra.Caffeine
	return nil
}

func (c Coffee) Fields() Fields {
	f := c.Item.Fields()
	f.Ingredients = c.Ingredients
	f.Caffeine = c.Caffeine
	return f
}

// Food is a dish; it has no fields beyond Item.
type Food struct {
	Item
}

// Entity is satisfied by the concrete catalog types the access layer serves.
type Entity interface {
	Coffee | Food
	GetID() int64
	CategoryName() string
}

// KindOf maps an entity type to its kind.
func KindOf[T Entity]() Kind {
	var zero T
	if _, ok := any(zero).(Food); ok {
		return KindFood
	}
	return KindCoffee
}

func nonEmptyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NonEmpty(*s)
}
