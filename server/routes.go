package server

func (s *Server) initRoutes() {
	// UI
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware(s.RequireLoginFlag)...))
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))

	// Mock Authorization Server
	s.RegisterRouteHandler("GET "+RouteOAuthAuthorize, ChainMiddleware(s.Authorize(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuthAuthenticate, ChainMiddleware(s.Authenticate(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuthToken, ChainMiddleware(s.Token(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuthRegister, ChainMiddleware(s.Register(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteWellKnownOpenIDConfig, ChainMiddleware(s.WellKnownOpenIDConfig(), s.APIMiddleware()...))

	// BFF
	s.RegisterRouteHandler("GET "+RouteBFFSignin, ChainMiddleware(s.Signin(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBFFSignin, ChainMiddleware(s.Signin(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteBFFCallback, ChainMiddleware(s.Callback(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBFFCallback, ChainMiddleware(s.Callback(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBFFLogin, ChainMiddleware(s.Login(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBFFRefresh, ChainMiddleware(s.Refresh(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteBFFLogout, ChainMiddleware(s.Logout(), s.APIMiddleware()...))

	// Mock Resource Server
	s.RegisterRouteHandler("GET "+RouteResourceProfile, ChainMiddleware(s.Profile(), s.APIMiddleware()...))
}
