// Package server wires the three surfaces of the practice system onto a
// single mux: the mock authorization server under /oauth, the BFF under
// /bff, and the mock resource server under /resource. One process plays
// all three roles; the packages behind the handlers stay unaware of each
// other.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/oauthlab/go-bff-server/bff"
	"github.com/oauthlab/go-bff-server/internal/config"
	"github.com/oauthlab/go-bff-server/provider"
	"github.com/oauthlab/go-bff-server/resource"
)

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	repos    provider.Repos
	provider *provider.Service
	bff      *bff.Service
	gate     *resource.Gate
}

func New(config config.Config, repos provider.Repos) (*Server, error) {
	providerService, err := provider.New(repos,
		provider.WithAccessTokenTTL(config.GetAccessTokenExpiry()))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create provider service: %w", err)
	}

	bffService, err := bff.New(config.GetClientID(), config.GetClientSecret(),
		bff.WithUpstreamTimeout(config.GetUpstreamTimeout()))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create bff service: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		repos:    repos,
		provider: providerService,
		bff:      bffService,
		gate:     resource.NewGate(),
	}
	s.env = config.GetEnv()

	// Bootstrap: register the BFF client and seed user
	if err := s.InitialiseSystem(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
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
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// requestOrigin rebuilds the origin the browser used to reach us. All
// three surfaces share it: the issuer, the redirect URIs, and the BFF's
// upstream endpoints all derive from the incoming request.
func requestOrigin(r *http.Request) string {
	return getScheme(r) + "://" + r.Host
}
