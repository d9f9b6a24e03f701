package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

// loginPage contains data for rendering the login page
type loginPage struct {
	Tab      string // "login" or "register"
	Username string // preserved on error
}

// LoginPageUIHandler displays the admin login and register forms
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("admin_login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r).IsAuthenticated() {
			redirectSuccess(w, r, RouteAdminDashboard)
			return
		}
		s.renderLogin(w, r, tmpl, http.StatusOK, "")
	}
}

// LoginSubmissionHandler exchanges the submitted credentials for a token
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("admin_login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if !s.loginLimiter.Allow(clientKey(r)) {
			log.Warn().Str("client", clientKey(r)).Msg("admin login rate limited")
			w.Header().Set("Retry-After", "60")
			s.renderLogin(w, r, tmpl, http.StatusTooManyRequests, "Terlalu banyak percobaan login. Coba lagi sebentar lagi.")
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		username := r.FormValue("username")
		password := r.FormValue("password")

		if _, err := s.clientFor(r).Login(r.Context(), username, password); err != nil {
			log.Info().Err(err).Str("username", username).Msg("admin login failed")
			redirectWithError(w, r, withQuery(RouteAdminLogin, "username", username), userMessage(err))
			return
		}
		redirectWithNotice(w, r, RouteAdminDashboard, "Login berhasil")
	}
}

// RegisterSubmissionHandler creates an admin account. The confirmation is
// checked before anything is sent to the backend.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		username := r.FormValue("username")

		msg, err := s.clientFor(r).Register(r.Context(), username, r.FormValue("password"), r.FormValue("confirm_password"))
		if err != nil {
			back := withQuery(withQuery(RouteAdminLogin, "tab", "register"), "username", username)
			redirectWithError(w, r, back, userMessage(err))
			return
		}
		if msg == "" {
			msg = "Registrasi berhasil"
		}
		redirectWithNotice(w, r, withQuery(RouteAdminLogin, "username", username), msg+". Silakan login.")
	}
}

// LogoutHandler clears the token and forgets the browser's stored state
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.clientFor(r).Logout(); err != nil {
			log.Err(err).Msg("Logout: failed to clear session")
		}
		if id := browserIDFrom(r); id != "" {
			if err := s.browsers.Delete(id); err != nil {
				log.Err(err).Msg("Logout: failed to delete browser state")
			}
		}
		redirectWithNotice(w, r, RouteAdminLogin, "Anda telah logout")
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, errorMsg string) {
	tab := r.URL.Query().Get("tab")
	if tab != "register" {
		tab = "login"
	}
	data := s.newPageData(r, "Admin Login", "admin", loginPage{
		Tab:      tab,
		Username: r.URL.Query().Get("username"),
	})
	if errorMsg != "" {
		data.Error = errorMsg
	}
	render(w, tmpl, status, data)
}
