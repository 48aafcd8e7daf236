package server

// Route path constants
const (
	// Pages
	RouteRoot      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"
	RouteSettings  = "/settings"
	RouteAdmin     = "/admin"

	// Auth API, mounted under RouteAuthRoot
	RouteAuthRoot            = "/api/auth"
	RouteAuthCallbackHandler = "/callback-handler"
	RouteAuthSession         = "/session"
	RouteAuthLogout          = "/logout"
	RouteAuthRefreshToken    = "/refresh-token"
	RouteAuthRefresh         = "/refresh"
	RouteAuthProfile         = "/profile"

	// Operational
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"

	// Static assets
	RouteStatic = "/static/*"
)
