package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/server/browserstate"
	"github.com/jrsteele09/go-cafe-storefront/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyBrowserID stores the id from the browser cookie
	ContextKeyBrowserID ContextKey = "browser_id"
	// ContextKeySession stores the browser's *session.Session
	ContextKeySession ContextKey = "session"
)

// BrowserSessionMiddleware identifies the browser by cookie, issuing a new
// id when there is none, and attaches that browser's session to the request.
func (s *Server) BrowserSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browserID := ""
		if cookie, err := r.Cookie(browserCookieName); err == nil && browserstate.ValidBrowserID(cookie.Value) {
			browserID = cookie.Value
		} else {
			browserID = browserstate.NewBrowserID()
			s.setBrowserCookie(w, r, browserID)
		}

		store, err := s.browsers.Store(browserID)
		if err != nil {
			log.Err(err).Str("browser", browserID).Msg("browser session unavailable")
			http.Error(w, "500 - Session unavailable", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyBrowserID, browserID)
		ctx = context.WithValue(ctx, ContextKeySession, session.New(store))
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin sends visitors without a token to the login page.
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !sessionFrom(r).IsAuthenticated() {
				redirectWithError(w, r, RouteAdminLogin, "Silakan login terlebih dahulu")
				return
			}
			next(w, r)
		}
	}
}

// sessionFrom returns the browser session attached by BrowserSessionMiddleware.
// Requests that bypassed it get an empty throwaway session.
func sessionFrom(r *http.Request) *session.Session {
	if sess, ok := r.Context().Value(ContextKeySession).(*session.Session); ok {
		return sess
	}
	return session.New(nil)
}

func browserIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ContextKeyBrowserID).(string)
	return id
}

// clientFor binds the shared backend client to the request's browser session.
func (s *Server) clientFor(r *http.Request) *api.Client {
	return s.client.WithSession(sessionFrom(r))
}
