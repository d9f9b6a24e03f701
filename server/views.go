package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/internal/utils"
)

// pageData is the model every template receives. Page holds the
// page-specific part.
type pageData struct {
	AppName  string
	Title    string
	Active   string
	Notice   string
	Error    string
	Admin    bool
	Username string
	Page     any
}

func (s *Server) newPageData(r *http.Request, title, active string, page any) pageData {
	sess := sessionFrom(r)
	return pageData{
		AppName:  s.config.GetAppName(),
		Title:    title,
		Active:   active,
		Notice:   r.URL.Query().Get("notice"),
		Error:    r.URL.Query().Get("error"),
		Admin:    sess.IsAuthenticated(),
		Username: displayName(sess.Username()),
		Page:     page,
	}
}

func displayName(username string) string {
	if strings.TrimSpace(username) == "" {
		return "Admin"
	}
	return username
}

// itemView is a catalog entity flattened for templates.
type itemView struct {
	Kind        string
	KindLabel   string
	ID          int64
	Name        string
	Description string
	Price       string
	RawPrice    int64
	Category    string
	ImageURL    string
	Ingredients []string
	Caffeine    string
	Href        string
}

func (s *Server) itemView(kind catalog.Kind, item catalog.Item) itemView {
	return itemView{
		Kind:        kind.String(),
		KindLabel:   kind.Label(),
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       catalog.FormatRupiah(item.Price),
		RawPrice:    item.Price,
		Category:    item.CategoryName(),
		ImageURL:    s.assetURL(utils.Value(item.ImageURL)),
		Href:        "/menu/" + kind.String() + "/" + strconv.FormatInt(item.ID, 10),
	}
}

func (s *Server) coffeeView(c catalog.Coffee) itemView {
	v := s.itemView(catalog.KindCoffee, c.Item)
	v.Ingredients = c.Ingredients
	v.Caffeine = c.Caffeine
	return v
}

func (s *Server) foodView(f catalog.Food) itemView {
	return s.itemView(catalog.KindFood, f.Item)
}

func (s *Server) coffeeViews(coffees []catalog.Coffee) []itemView {
	out := make([]itemView, 0, len(coffees))
	for _, c := range coffees {
		out = append(out, s.coffeeView(c))
	}
	return out
}

func (s *Server) foodViews(foods []catalog.Food) []itemView {
	out := make([]itemView, 0, len(foods))
	for _, f := range foods {
		out = append(out, s.foodView(f))
	}
	return out
}

// assetURL makes a backend-relative image path absolute
func (s *Server) assetURL(raw string) string {
	if raw == "" || s.assetOrigin == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return raw
	}
	return s.assetOrigin + raw
}
