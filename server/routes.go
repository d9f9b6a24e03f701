package server

import "github.com/rs/zerolog/log"

func (s *Server) initRoutes() {
	// Storefront
	s.RegisterRouteHandler("GET "+RouteHome+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteMenu, ChainMiddleware(s.MenuHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteMenuCoffee, ChainMiddleware(s.MenuItemHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteMenuItem, ChainMiddleware(s.MenuItemHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteAdminLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAdminLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAdminRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAdminLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Admin routes (require a stored token)
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.RequireAdmin())...))
	s.RegisterRouteHandler("GET "+RouteAdminProducts, ChainMiddleware(s.AdminProductsHandler(), s.HTMLMiddleWare(s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteAdminProducts, ChainMiddleware(s.AdminCreateHandler(), s.HTMLMiddleWare(s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteAdminProduct, ChainMiddleware(s.AdminUpdateHandler(), s.HTMLMiddleWare(s.RequireAdmin())...))
	s.RegisterRouteHandler("POST "+RouteAdminDelete, ChainMiddleware(s.AdminDeleteHandler(), s.HTMLMiddleWare(s.RequireAdmin())...))

	// Operational
	s.RegisterRouteHandler("GET "+RouteMetrics, s.MetricsHandler())
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.staticHandler(), s.StaticMiddleware()...))
}

func logError(method, path string, err error) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+err.Error()+ResetColor)
}
