package catalog

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError is a client-side input problem found before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Fields is what an admin submits when creating or editing an item.
type Fields struct {
	Name        string
	Description string
	Price       int64
	Category    string
	Ingredients []string
	Caffeine    string
}

// Validate mirrors the admin form's required markers and the price invariant.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(f.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if f.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

// groupedPrice matches whole amounts written with thousands separators,
// e.g. "25.000" or "1 250 000". Every group after the first has three digits.
var groupedPrice = regexp.MustCompile(`^\d{1,3}([. \x{00a0}]\d{3})+$`)

// ParsePrice reads a whole-Rupiah amount typed into a form. Dot and space
// thousands separators ("25.000") and an "Rp" prefix are tolerated; anything
// that is not a whole number, like "1.5" or "25000.50", is rejected.
func ParsePrice(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(cleaned, "Rp"), "rp"))
	if cleaned == "" {
		return 0, &ValidationError{Field: "price", Reason: "is required"}
	}
	if strings.ContainsAny(cleaned, ". \u00a0") {
		if !groupedPrice.MatchString(cleaned) {
			return 0, &ValidationError{Field: "price", Reason: "must be a whole number"}
		}
		cleaned = strings.NewReplacer(".", "", " ", "", "\u00a0", "").Replace(cleaned)
	}
	price, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "price", Reason: "must be a whole number"}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return price, nil
}

// SplitIngredients turns a comma or newline separated list into entries.
func SplitIngredients(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Image is an optional file uploaded alongside Fields.
type Image struct {
	Filename    string
	ContentType string
	Data        io.Reader
}
