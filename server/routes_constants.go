package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// UI Routes
	RouteIndex = "/{$}"
	RouteLogin = "/login"

	// Mock Authorization Server routes
	RouteOAuthAuthorize    = "/oauth/authorize"
	RouteOAuthAuthenticate = "/oauth/authenticate"
	RouteOAuthToken        = "/oauth/token"
	RouteOAuthRegister     = "/oauth/register"

	// BFF routes (the server-side half of the browser client)
	RouteBFFSignin   = "/bff/signin"
	RouteBFFCallback = "/bff/callback"
	RouteBFFLogin    = "/bff/login"
	RouteBFFRefresh  = "/bff/refresh"
	RouteBFFLogout   = "/bff/logout"

	// Mock Resource Server routes
	RouteResourceProfile = "/resource/profile"

	// OIDC discovery
	RouteWellKnownOpenIDConfig = "/.well-known/openid-configuration"
)
