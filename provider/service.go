// Package provider implements the mock authorization server: parameter
// validation and login delegation (authorize), credential checking and
// code minting (authenticate), and code/refresh redemption (token). The
// protocol invariants live here; HTTP is wired up in the server package.
package provider

import (
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/oauthlab/go-bff-server/authcode"
	"github.com/oauthlab/go-bff-server/clients"
	"github.com/oauthlab/go-bff-server/oauthmodel"
	"github.com/oauthlab/go-bff-server/pkce"
	"github.com/oauthlab/go-bff-server/users"
)

// Token shapes. The prefixes are what the mock resource server and the
// refresh grant recognise; the remainder is random from a
// cryptographically strong source.
const (
	CodePrefix         = "mock_code_"
	AccessTokenPrefix  = "mock_access_token_"
	RefreshTokenPrefix = "mock_refresh_token_"

	codeRandomLength  = 32
	tokenRandomLength = 16
)

const (
	// DefaultAccessTokenTTL is deliberately short so the silent-refresh
	// path gets exercised constantly.
	DefaultAccessTokenTTL = 30 * time.Second
	DefaultScope          = "read_profile"
)

// Repos holds all repository dependencies for the Service.
type Repos struct {
	Users   users.Repo
	Clients clients.Repo
	Codes   authcode.Repo
}

// Service provides the authorization-server operations.
type Service struct {
	repos          Repos
	accessTokenTTL time.Duration
	scope          string
	nowTime        func() time.Time // injectable for testing
}

// ServiceOption modifies the Service at construction time.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithAccessTokenTTL overrides the access-token lifetime.
func WithAccessTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.accessTokenTTL = ttl
	}
}

// New initializes the Service with its required repositories.
func New(repos Repos, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[provider.New] Users repo is required")
	}
	if repos.Clients == nil {
		return nil, errors.New("[provider.New] Clients repo is required")
	}
	if repos.Codes == nil {
		return nil, errors.New("[provider.New] Codes repo is required")
	}

	service := &Service{
		repos:          repos,
		accessTokenTTL: DefaultAccessTokenTTL,
		scope:          DefaultScope,
		nowTime:        time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Authorize validates an authorization request and returns the URL of the
// delegated login surface with every original parameter forwarded
// unchanged. The authorization endpoint never touches credentials itself:
// whoever serves loginBase collects them and calls Authenticate.
func (s *Service) Authorize(params *oauthmodel.AuthorizationParameters, loginBase string) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	loginURL, err := url.Parse(loginBase)
	if err != nil {
		return "", errors.Wrap(err, "[Authorize] invalid login URL")
	}

	q := loginURL.Query()
	q.Set("client_id", params.ClientID)
	q.Set("redirect_uri", params.RedirectURI)
	q.Set("response_type", string(params.ResponseType))
	q.Set("state", params.State)
	if params.CodeChallenge != "" {
		q.Set("code_challenge", params.CodeChallenge)
		q.Set("code_challenge_method", string(params.ChallengeMethod()))
	}
	loginURL.RawQuery = q.Encode()

	return loginURL.String(), nil
}

// Authenticate checks the credentials and, on success, mints a single-use
// authorization code bound to the request's client and PKCE challenge.
// It returns the fully-formed redirect URL as data; the caller performs
// the navigation.
func (s *Service) Authenticate(username, password string, params *oauthmodel.AuthorizationParameters) (string, error) {
	if params.RedirectURI == "" {
		return "", ErrMissingRedirectURI
	}

	user, err := s.repos.Users.Get(username)
	if err != nil || !users.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	code, err := generateCode()
	if err != nil {
		return "", errors.Wrap(err, "[Authenticate] generateCode")
	}

	now := s.nowTime()
	pending := &authcode.PendingAuthorization{
		Code:                code,
		ClientID:            params.ClientID,
		CodeChallenge:       params.CodeChallenge,
		CodeChallengeMethod: params.ChallengeMethod(),
		Status:              authcode.StateCodeIssued,
		CreatedAt:           now,
		ExpiresAt:           now.Add(authcode.DefaultTTL),
	}
	if err := s.repos.Codes.Put(pending); err != nil {
		return "", errors.Wrap(err, "[Authenticate] codes.Put")
	}

	redirectURL, err := url.Parse(params.RedirectURI)
	if err != nil {
		return "", errors.Wrap(err, "[Authenticate] invalid redirect URI")
	}
	q := redirectURL.Query()
	q.Set("code", code)
	if params.State != "" {
		q.Set("state", params.State)
	}
	redirectURL.RawQuery = q.Encode()

	log.Info().Str("username", username).Bool("pkce", params.CodeChallenge != "").Msg("authorization code issued")

	return redirectURL.String(), nil
}

// Token handles the token request for both supported grants. Protocol
// failures are returned as *oauthmodel.Error carrying the wire code and
// HTTP status.
func (s *Service) Token(req oauthmodel.TokenRequest) (*oauthmodel.TokenResponse, error) {
	switch req.GrantType {
	case oauthmodel.GrantTypeAuthorizationCode:
		return s.exchangeCode(req)
	case oauthmodel.GrantTypeRefreshToken:
		return s.refreshGrant(req)
	default:
		return nil, oauthmodel.ErrUnsupportedGrantType
	}
}

// exchangeCode redeems an authorization code. Check order: code validity,
// PKCE, client credentials. The code is consumed at lookup, so the first
// redemption attempt burns it regardless of how the later checks turn out.
func (s *Service) exchangeCode(req oauthmodel.TokenRequest) (*oauthmodel.TokenResponse, error) {
	pending, err := s.repos.Codes.Consume(req.Code)
	if err != nil {
		return nil, oauthmodel.ErrInvalidGrant.WithDescription("authorization code is invalid or expired")
	}

	if pending.CodeChallenge != "" {
		if req.CodeVerifier == "" {
			return nil, oauthmodel.ErrInvalidRequest.WithDescription("code_verifier is required")
		}
		if !pkce.Verify(pending.CodeChallenge, req.CodeVerifier, pending.CodeChallengeMethod) {
			log.Warn().Str("client_id", req.ClientID).Msg("PKCE verification failed")
			return nil, oauthmodel.ErrInvalidGrant.WithDescription("PKCE verification failed")
		}
	}

	client, err := s.repos.Clients.Get(req.ClientID)
	if err != nil || req.ClientID != pending.ClientID || !client.ValidSecret(req.ClientSecret) {
		return nil, oauthmodel.ErrInvalidClient
	}

	resp, err := s.issueTokens()
	if err != nil {
		return nil, err
	}

	log.Info().Str("client_id", req.ClientID).Msg("tokens issued for authorization code")
	return resp, nil
}

// refreshGrant issues a fresh access token against a presented refresh
// token. The mock trusts the token's shape as proof of identity; the
// refresh token is retained rather than rotated.
func (s *Service) refreshGrant(req oauthmodel.TokenRequest) (*oauthmodel.TokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, oauthmodel.ErrInvalidRequest.WithDescription("refresh_token is required")
	}
	if !strings.HasPrefix(req.RefreshToken, RefreshTokenPrefix) {
		return nil, oauthmodel.ErrInvalidGrant.WithDescription("refresh token is not recognised")
	}

	client, err := s.repos.Clients.Get(req.ClientID)
	if err != nil || !client.ValidSecret(req.ClientSecret) {
		return nil, oauthmodel.ErrInvalidClient
	}

	resp, err := s.issueTokens()
	if err != nil {
		return nil, err
	}
	resp.RefreshToken = req.RefreshToken

	log.Info().Str("client_id", req.ClientID).Msg("access token refreshed")
	return resp, nil
}

// Register adds a user to the credential store. Passwords are stored
// bcrypt-hashed even though the store is volatile.
func (s *Service) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if _, err := s.repos.Users.Get(username); err == nil {
		return ErrUserExists
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "[Register] HashPassword")
	}

	return s.repos.Users.Upsert(&users.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.nowTime(),
	})
}

func (s *Service) issueTokens() (*oauthmodel.TokenResponse, error) {
	access, err := randomToken(AccessTokenPrefix)
	if err != nil {
		return nil, err
	}
	refresh, err := randomToken(RefreshTokenPrefix)
	if err != nil {
		return nil, err
	}

	return &oauthmodel.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    oauthmodel.TokenTypeBearer,
		ExpiresIn:    int64(s.accessTokenTTL / time.Second),
		Scope:        s.scope,
	}, nil
}

func generateCode() (string, error) {
	suffix, err := randomString(codeRandomLength)
	if err != nil {
		return "", err
	}
	return CodePrefix + suffix, nil
}

func randomToken(prefix string) (string, error) {
	suffix, err := randomString(tokenRandomLength)
	if err != nil {
		return "", errors.Wrap(err, "randomToken")
	}
	return prefix + suffix, nil
}

// randomString creates an unguessable base64url string from length bytes
// of crypto/rand entropy.
func randomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
