package server_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/apifake"
	"github.com/jrsteele09/go-cafe-storefront/internal/config"
	"github.com/jrsteele09/go-cafe-storefront/server"
	"github.com/jrsteele09/go-cafe-storefront/server/browserstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// harness runs the storefront against a seeded apifake backend. Its browser
// keeps cookies and does not follow redirects.
type harness struct {
	backend *apifake.Backend
	front   *httptest.Server
	browser *http.Client
}

func newHarness(t *testing.T, fakeOpts ...apifake.Option) *harness {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "1")
	t.Setenv("LOGIN_BURST", "3")

	fakeOpts = append([]apifake.Option{apifake.WithBcryptCost(bcrypt.MinCost)}, fakeOpts...)
	backend := apifake.New(fakeOpts...)
	backend.SeedMenu()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)
	t.Setenv("API_BASE_URL", backendSrv.URL)

	cfg := config.New()
	registry := prometheus.NewRegistry()
	client := api.New(api.Config{BaseURL: cfg.GetAPIBaseURL()}, nil, api.WithMetrics(api.NewMetrics(registry)))
	s, err := server.New(cfg, client, browserstate.NewInMemoryRepo(), registry)
	require.NoError(t, err)

	front := httptest.NewServer(s)
	t.Cleanup(front.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{
		backend: backend,
		front:   front,
		browser: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := h.browser.Get(h.front.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (h *harness) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := h.browser.PostForm(h.front.URL+path, form)
	require.NoError(t, err)
	readBody(t, resp)
	return resp
}

// login adds the user to the backend and signs the browser in.
func (h *harness) login(t *testing.T, username, password string) {
	t.Helper()
	require.NoError(t, h.backend.AddUser(username, password))
	resp := h.post(t, server.RouteAdminLogin, url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), server.RouteAdminDashboard), resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// redirectQuery returns the query of a redirect's Location header.
func redirectQuery(t *testing.T, resp *http.Response) url.Values {
	t.Helper()
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return loc.Query()
}
