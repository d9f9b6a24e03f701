package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
)

// browserCookieName is the cookie holding the browser id
const browserCookieName = "kopikata_browser"

func (s *Server) setBrowserCookie(w http.ResponseWriter, r *http.Request, browserID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     browserCookieName,
		Value:    browserID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetBrowserCookieMaxAge().Seconds()),
	})
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, withQuery(path, "error", errorMsg))
}

// redirectWithNotice redirects with a success notification
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, withQuery(path, "notice", notice))
}

func withQuery(path, key, value string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// userMessage turns an access layer error into text for a notification.
func userMessage(err error) string {
	var ve *api.ValidationError
	var fe *api.FetchError
	switch {
	case errors.As(err, &ve):
		return validationMessage(ve)
	case errors.As(err, &fe) && fe.StatusCode == 0:
		return "Server tidak dapat dihubungi. Coba lagi nanti."
	}
	return api.Message(err)
}

func validationMessage(ve *api.ValidationError) string {
	switch ve.Field {
	case "confirm_password":
		return "Password dan konfirmasi password tidak sama"
	case "name":
		return "Nama wajib diisi"
	case "description":
		return "Deskripsi wajib diisi"
	case "price":
		return "Harga harus berupa angka yang valid"
	}
	if ve.Field == "" {
		return "Username dan password wajib diisi"
	}
	return ve.Error()
}
