// Package bff is the server-side half of the browser client: it starts
// the authorization flow, redeems the callback code, and performs silent
// refresh, keeping every token secret out of the page. The browser only
// ever sees HttpOnly cookies and short-lived access tokens over JSON.
package bff

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	// RouteCallback is where the authorization server sends the browser
	// back. It must match a redirect URI registered for the client.
	RouteCallback = "/bff/callback"

	// DefaultUpstreamTimeout bounds each token-endpoint call. One attempt,
	// no retries.
	DefaultUpstreamTimeout = 10 * time.Second
)

// Service drives the OAuth2 client side. Endpoint configuration is
// resolved per origin through OIDC discovery and cached, so the same
// instance serves any host the process is reached on.
type Service struct {
	clientID        string
	clientSecret    string
	upstreamTimeout time.Duration
	httpClient      *http.Client

	configLock sync.RWMutex
	configs    map[string]*oauth2.Config
}

// ServiceOption modifies the Service at construction time.
type ServiceOption func(*Service)

// WithUpstreamTimeout overrides the token-endpoint call timeout.
func WithUpstreamTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.upstreamTimeout = timeout
	}
}

// WithHTTPClient sets the client used for discovery and token calls.
func WithHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		s.httpClient = client
	}
}

// New initializes the Service with the confidential client credentials.
func New(clientID, clientSecret string, options ...ServiceOption) (*Service, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("[bff.New] client credentials are required")
	}

	service := &Service{
		clientID:        clientID,
		clientSecret:    clientSecret,
		upstreamTimeout: DefaultUpstreamTimeout,
		httpClient:      http.DefaultClient,
		configs:         make(map[string]*oauth2.Config),
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// configForOrigin resolves the oauth2.Config for an origin, discovering
// the endpoints from its OIDC metadata document and caching the result.
// When discovery is unavailable the conventional endpoint paths are used,
// so a cold start never blocks signin.
func (s *Service) configForOrigin(ctx context.Context, origin string) *oauth2.Config {
	s.configLock.RLock()
	config, exists := s.configs[origin]
	s.configLock.RUnlock()
	if exists {
		return config
	}

	endpoint := oauth2.Endpoint{
		AuthURL:  origin + "/oauth/authorize",
		TokenURL: origin + "/oauth/token",
	}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, s.httpClient), origin)
	if err != nil {
		log.Debug().Err(err).Str("origin", origin).Msg("OIDC discovery unavailable, using conventional endpoints")
	} else {
		endpoint = provider.Endpoint()
	}

	// Forcing client credentials into the form body keeps x/oauth2 from
	// probing with basic auth first: a failed probe would still consume
	// the single-use authorization code.
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	config = &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     endpoint,
		RedirectURL:  origin + RouteCallback,
	}

	s.configLock.Lock()
	s.configs[origin] = config
	s.configLock.Unlock()

	return config
}

// BeginFlow mints the state nonce and PKCE verifier for a new signin
// attempt and builds the authorization URL carrying their public halves.
// The caller persists state and verifier in flow cookies.
func (s *Service) BeginFlow(ctx context.Context, origin string) (authURL, state, verifier string) {
	state = uuid.NewString()
	verifier = oauth2.GenerateVerifier()

	config := s.configForOrigin(ctx, origin)
	authURL = config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	return authURL, state, verifier
}

// Exchange redeems the authorization code, presenting the stored verifier
// to complete PKCE. Single attempt with a bounded timeout.
func (s *Service) Exchange(ctx context.Context, origin, code, verifier string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(s.clientContext(ctx), s.upstreamTimeout)
	defer cancel()

	config := s.configForOrigin(ctx, origin)
	token, err := config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, errors.Wrap(err, "[Exchange] token exchange failed")
	}

	return token, nil
}

// Refresh trades the refresh token for a fresh access token. The returned
// token's RefreshToken reports whatever the server decided: unchanged, or
// rotated.
func (s *Service) Refresh(ctx context.Context, origin, refreshToken string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(s.clientContext(ctx), s.upstreamTimeout)
	defer cancel()

	config := s.configForOrigin(ctx, origin)
	token, err := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] token refresh failed")
	}

	return token, nil
}

func (s *Service) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// ExpiresIn converts a token's expiry into the seconds-remaining form the
// page consumes.
func ExpiresIn(token *oauth2.Token) int64 {
	if token.ExpiresIn > 0 {
		return token.ExpiresIn
	}
	if token.Expiry.IsZero() {
		return 0
	}
	return int64(time.Until(token.Expiry).Seconds())
}

// UpstreamError unwraps the OAuth error response behind a failed token
// call, so handlers can relay the authorization server's status and body
// verbatim. ok is false for transport failures, which have no upstream
// response to relay.
func UpstreamError(err error) (status int, body []byte, ok bool) {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return 0, nil, false
	}
	return retrieveErr.Response.StatusCode, retrieveErr.Body, true
}
