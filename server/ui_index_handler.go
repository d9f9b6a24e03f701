package server

import (
	"net/http"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/menu"
	"github.com/rs/zerolog/log"
)

const featuredCount = 3

type homePage struct {
	Featured []itemView
}

// IndexHandler renders the home page with a few coffees from the menu
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		page := menu.NewPage(s.clientFor(r), catalog.KindCoffee)
		defer page.Close()
		if err := page.Load(r.Context()); err != nil {
			log.Warn().Err(err).Msg("home: featured coffees unavailable")
		}

		featured := page.Snapshot().Coffees
		if len(featured) > featuredCount {
			featured = featured[:featuredCount]
		}
		data := homePage{Featured: s.coffeeViews(featured)}
		render(w, tmpl, http.StatusOK, s.newPageData(r, "Beranda", "home", data))
	}
}
