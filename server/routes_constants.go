package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Storefront Routes
	RouteHome       = "/"
	RouteMenu       = "/menu"
	RouteMenuCoffee = "/menu/{id}"
	RouteMenuItem   = "/menu/{kind}/{id}"

	// Admin Routes - Login & Logout
	RouteAdminLogin    = "/admin/login"
	RouteAdminRegister = "/admin/register"
	RouteAdminLogout   = "/admin/logout"

	// Admin Routes - Catalog management
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminProducts  = "/admin/products/{kind}"
	RouteAdminProduct   = "/admin/products/{kind}/{id}"
	RouteAdminDelete    = "/admin/products/{kind}/{id}/delete"

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

// productsPath returns the admin products page for kind
func productsPath(kind string) string {
	return "/admin/products/" + kind
}
