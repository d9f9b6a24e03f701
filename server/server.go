package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/internal/config"
	"github.com/jrsteele09/go-cafe-storefront/server/browserstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	client       *api.Client // shared transport; bound to a browser session per request
	browsers     browserstate.Repo
	loginLimiter *RateLimiter
	metrics      *httpMetrics
	gatherer     prometheus.Gatherer
	assetOrigin  string // scheme://host of the backend, for relative image URLs
}

// New builds the storefront server. HTTP metrics are registered on registry,
// which is also what /metrics serves.
func New(config config.Config, client *api.Client, browsers browserstate.Repo, registry *prometheus.Registry) (*Server, error) {
	if client == nil || browsers == nil || registry == nil {
		return nil, fmt.Errorf("[Server New] client, browser repo and registry are required")
	}

	s := &Server{
		env:          config.GetEnv(),
		mux:          http.NewServeMux(),
		config:       config,
		client:       client,
		browsers:     browsers,
		loginLimiter: NewRateLimiter(config.GetLoginRatePerMinute(), config.GetLoginBurst()),
		metrics:      newHTTPMetrics(registry),
		gatherer:     registry,
	}
	if u, err := url.Parse(config.GetAPIBaseURL()); err == nil && u.Host != "" {
		s.assetOrigin = u.Scheme + "://" + u.Host
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// LoginLimiter exposes the admin login limiter so its cleanup can be scheduled.
func (s *Server) LoginLimiter() *RateLimiter {
	return s.loginLimiter
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
