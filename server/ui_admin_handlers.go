package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/menu"
	"github.com/rs/zerolog/log"
)

type kindCount struct {
	Kind  string
	Label string
	Count int
	Href  string
	Error string
}

type dashboardPage struct {
	Counts []kindCount
	Total  int
}

type kindTab struct {
	Label  string
	Href   string
	Active bool
}

// productForm prefills the create or edit form
type productForm struct {
	Action      string
	ID          int64
	Name        string
	Description string
	Price       string
	Category    string
	Ingredients string
	Caffeine    string
	ImageURL    string
}

type productsPage struct {
	Kind       string
	KindLabel  string
	IsCoffee   bool
	Tabs       []kindTab
	Items      []itemView
	ListError  string
	Categories []string
	Caffeine   []string
	Editing    bool
	Form       productForm
}

var caffeineLevels = []string{"Low", "Medium", "High"}

// AdminDashboardHandler greets the admin and shows how many items each kind has
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("admin_dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		page := menu.NewPage(s.clientFor(r))
		defer page.Close()
		if err := page.Load(r.Context()); err != nil {
			log.Warn().Err(err).Msg("dashboard: catalog counts incomplete")
		}
		snap := page.Snapshot()

		data := dashboardPage{}
		for _, kind := range catalog.Kinds {
			count := len(snap.Coffees)
			if kind == catalog.KindFood {
				count = len(snap.Foods)
			}
			data.Total += count
			data.Counts = append(data.Counts, kindCount{
				Kind:  kind.String(),
				Label: kind.Label(),
				Count: count,
				Href:  productsPath(kind.String()),
				Error: errorText(snap.Errors[kind]),
			})
		}
		render(w, tmpl, http.StatusOK, s.newPageData(r, "Dashboard", "dashboard", data))
	}
}

// AdminProductsHandler lists one kind with the create form, or the edit
// form when ?edit=<id> names an item.
func (s *Server) AdminProductsHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("admin_products.html")

	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := catalog.ParseKind(r.PathValue("kind"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		page := menu.NewPage(s.clientFor(r), kind)
		defer page.Close()
		if err := page.Load(r.Context()); err != nil {
			log.Warn().Err(err).Str("kind", kind.String()).Msg("products: list load failed")
		}
		snap := page.Snapshot()

		data := productsPage{
			Kind:       kind.String(),
			KindLabel:  kind.Label(),
			IsCoffee:   kind == catalog.KindCoffee,
			ListError:  errorText(snap.Errors[kind]),
			Categories: catalog.Categories(kind),
			Caffeine:   caffeineLevels,
			Form:       productForm{Action: productsPath(kind.String())},
		}
		for _, k := range catalog.Kinds {
			data.Tabs = append(data.Tabs, kindTab{Label: k.Label(), Href: productsPath(k.String()), Active: k == kind})
		}
		if kind == catalog.KindCoffee {
			data.Items = s.coffeeViews(snap.Coffees)
		} else {
			data.Items = s.foodViews(snap.Foods)
		}

		pd := s.newPageData(r, "Kelola "+kind.Label(), "products", nil)
		if raw := r.URL.Query().Get("edit"); raw != "" {
			form, ok := s.editForm(r, page, kind, raw)
			if ok {
				data.Editing = true
				data.Form = form
			} else if pd.Error == "" {
				pd.Error = "Item tidak ditemukan"
			}
		}
		pd.Page = data
		render(w, tmpl, http.StatusOK, pd)
	}
}

// editForm resolves the item being edited, falling back to the listed copy
func (s *Server) editForm(r *http.Request, page *menu.Page, kind catalog.Kind, rawID string) (productForm, bool) {
	id, err := catalog.ParseID(rawID)
	if err != nil {
		return productForm{}, false
	}
	sel, err := page.Select(r.Context(), kind, id)
	if err != nil || sel.Source == menu.NotFound {
		return productForm{}, false
	}

	var fields catalog.Fields
	var imageURL string
	if sel.Coffee != nil {
		fields = sel.Coffee.Fields()
		imageURL = s.coffeeView(*sel.Coffee).ImageURL
	} else {
		fields = sel.Food.Fields()
		imageURL = s.foodView(*sel.Food).ImageURL
	}
	return productForm{
		Action:      productsPath(kind.String()) + "/" + strconv.FormatInt(id, 10),
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Price:       strconv.FormatInt(fields.Price, 10),
		Category:    fields.Category,
		Ingredients: strings.Join(fields.Ingredients, ", "),
		Caffeine:    fields.Caffeine,
		ImageURL:    imageURL,
	}, true
}
