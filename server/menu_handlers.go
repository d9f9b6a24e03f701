package server

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/menu"
	"github.com/rs/zerolog/log"
)

type categoryLink struct {
	Name   string
	Href   string
	Active bool
}

type menuSection struct {
	Kind  string
	Label string
	Items []itemView
	Error string
}

type menuPage struct {
	Category   string
	Categories []categoryLink
	Sections   []menuSection
	RetryHref  string
	HasErrors  bool
}

type detailPage struct {
	Found    bool
	Item     itemView
	FromList bool // the server lookup failed and the list copy is shown
	BackHref string
}

// MenuHandler renders both catalog lists, optionally filtered by ?category=.
func (s *Server) MenuHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("menu.html")

	return func(w http.ResponseWriter, r *http.Request) {
		page := menu.NewPage(s.clientFor(r))
		defer page.Close()
		if err := page.Load(r.Context()); err != nil {
			log.Warn().Err(err).Msg("menu: list load failed")
		}
		snap := page.Snapshot()

		category := r.URL.Query().Get("category")
		if category == "" {
			category = catalog.CategoryAll
		}

		data := menuPage{
			Category:   category,
			Categories: categoryLinks(category),
			RetryHref:  r.URL.RequestURI(),
			HasErrors:  snap.HasErrors(),
		}
		coffees := s.coffeeViews(catalog.FilterByCategory(snap.Coffees, category))
		foods := s.foodViews(catalog.FilterByCategory(snap.Foods, category))
		for _, section := range []menuSection{
			{Kind: catalog.KindCoffee.String(), Label: catalog.KindCoffee.Label(), Items: coffees, Error: errorText(snap.Errors[catalog.KindCoffee])},
			{Kind: catalog.KindFood.String(), Label: catalog.KindFood.Label(), Items: foods, Error: errorText(snap.Errors[catalog.KindFood])},
		} {
			if category == catalog.CategoryAll || len(section.Items) > 0 || section.Error != "" {
				data.Sections = append(data.Sections, section)
			}
		}

		render(w, tmpl, http.StatusOK, s.newPageData(r, "Menu", "menu", data))
	}
}

// MenuItemHandler renders one item. Coffee routes without a kind segment
// resolve as coffees. A lookup failure falls back to the loaded list; an
// item found nowhere renders the not-found view with status 404.
func (s *Server) MenuItemHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("menu_item.html")

	return func(w http.ResponseWriter, r *http.Request) {
		kind := catalog.KindCoffee
		if raw := r.PathValue("kind"); raw != "" {
			parsed, err := catalog.ParseKind(raw)
			if err != nil {
				s.renderItemNotFound(w, r, tmpl)
				return
			}
			kind = parsed
		}
		id, err := catalog.ParseID(r.PathValue("id"))
		if err != nil {
			s.renderItemNotFound(w, r, tmpl)
			return
		}

		page := menu.NewPage(s.clientFor(r), kind)
		defer page.Close()
		if err := page.Load(r.Context()); err != nil {
			log.Warn().Err(err).Str("kind", kind.String()).Msg("menu item: list load failed")
		}
		sel, err := page.Select(r.Context(), kind, id)
		if err != nil || sel.Source == menu.NotFound {
			s.renderItemNotFound(w, r, tmpl)
			return
		}

		data := detailPage{
			Found:    true,
			FromList: sel.Source == menu.FromCache,
			BackHref: RouteMenu,
		}
		if sel.Coffee != nil {
			data.Item = s.coffeeView(*sel.Coffee)
		} else {
			data.Item = s.foodView(*sel.Food)
		}
		render(w, tmpl, http.StatusOK, s.newPageData(r, data.Item.Name, "menu", data))
	}
}

func (s *Server) renderItemNotFound(w http.ResponseWriter, r *http.Request, tmpl *template.Template) {
	data := detailPage{BackHref: RouteMenu}
	render(w, tmpl, http.StatusNotFound, s.newPageData(r, "Menu tidak ditemukan", "menu", data))
}

func categoryLinks(active string) []categoryLink {
	names := []string{catalog.CategoryAll}
	for _, kind := range catalog.Kinds {
		names = append(names, catalog.Categories(kind)...)
	}
	links := make([]categoryLink, 0, len(names))
	for _, name := range names {
		href := RouteMenu
		if name != catalog.CategoryAll {
			href += "?category=" + url.QueryEscape(name)
		}
		links = append(links, categoryLink{Name: name, Href: href, Active: name == active})
	}
	return links
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return userMessage(err)
}
