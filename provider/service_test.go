package provider_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oauthlab/go-bff-server/authcode"
	"github.com/oauthlab/go-bff-server/clients"
	"github.com/oauthlab/go-bff-server/oauthmodel"
	"github.com/oauthlab/go-bff-server/pkce"
	"github.com/oauthlab/go-bff-server/provider"
	"github.com/oauthlab/go-bff-server/users"
)

const (
	testClientID     = "practice-client-id"
	testClientSecret = "practice-client-secret"
	testRedirectURI  = "http://localhost:8080/bff/callback"
	testVerifier     = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

type testFixture struct {
	service *provider.Service
	codes   *authcode.InMemoryRepo
	now     time.Time
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	fixture := &testFixture{now: time.Now()}
	nowFunc := func() time.Time { return fixture.now }

	userRepo := users.NewInMemoryRepo()
	hash, err := users.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, userRepo.Upsert(&users.User{ID: "u-1", Username: "user", PasswordHash: hash}))

	clientRepo := clients.NewInMemoryRepo()
	require.NoError(t, clientRepo.Upsert(&clients.Client{
		ID:           testClientID,
		Secret:       testClientSecret,
		RedirectURIs: []string{testRedirectURI},
	}))

	fixture.codes = authcode.NewInMemoryRepo(authcode.WithNowFunc(nowFunc))

	fixture.service, err = provider.New(provider.Repos{
		Users:   userRepo,
		Clients: clientRepo,
		Codes:   fixture.codes,
	}, provider.WithNowTime(nowFunc))
	require.NoError(t, err)

	return fixture
}

func authParams() *oauthmodel.AuthorizationParameters {
	return &oauthmodel.AuthorizationParameters{
		ClientID:            testClientID,
		RedirectURI:         testRedirectURI,
		ResponseType:        oauthmodel.ResponseTypeCode,
		State:               "state-nonce",
		CodeChallenge:       pkce.ChallengeS256(testVerifier),
		CodeChallengeMethod: oauthmodel.CodeMethodS256,
	}
}

// issueCode walks the authenticate step and returns the minted code.
func (f *testFixture) issueCode(t *testing.T, params *oauthmodel.AuthorizationParameters) string {
	t.Helper()

	redirectTo, err := f.service.Authenticate("user", "password", params)
	require.NoError(t, err)

	parsed, err := url.Parse(redirectTo)
	require.NoError(t, err)

	code := parsed.Query().Get("code")
	require.NotEmpty(t, code)
	return code
}

func TestAuthorizeForwardsParameters(t *testing.T) {
	fixture := newTestFixture(t)
	params := authParams()

	loginURL, err := fixture.service.Authorize(params, "http://localhost:8080/login")
	require.NoError(t, err)

	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	assert.Equal(t, "/login", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, testClientID, q.Get("client_id"))
	assert.Equal(t, testRedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state-nonce", q.Get("state"))
	assert.Equal(t, params.CodeChallenge, q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
}

func TestAuthorizeDefaultsChallengeMethod(t *testing.T) {
	fixture := newTestFixture(t)
	params := authParams()
	params.CodeChallengeMethod = ""

	loginURL, err := fixture.service.Authorize(params, "http://localhost:8080/login")
	require.NoError(t, err)

	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	assert.Equal(t, "S256", parsed.Query().Get("code_challenge_method"))
}

func TestAuthorizeMissingParameters(t *testing.T) {
	fixture := newTestFixture(t)

	tests := []struct {
		name   string
		mutate func(*oauthmodel.AuthorizationParameters)
	}{
		{"no client_id", func(p *oauthmodel.AuthorizationParameters) { p.ClientID = "" }},
		{"no redirect_uri", func(p *oauthmodel.AuthorizationParameters) { p.RedirectURI = "" }},
		{"wrong response_type", func(p *oauthmodel.AuthorizationParameters) { p.ResponseType = "token" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := authParams()
			tc.mutate(params)

			_, err := fixture.service.Authorize(params, "http://localhost:8080/login")
			require.ErrorIs(t, err, oauthmodel.ErrMissingParameters)
		})
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	fixture := newTestFixture(t)

	redirectTo, err := fixture.service.Authenticate("user", "password", authParams())
	require.NoError(t, err)

	parsed, err := url.Parse(redirectTo)
	require.NoError(t, err)
	assert.Equal(t, "/bff/callback", parsed.Path)
	assert.True(t, strings.HasPrefix(parsed.Query().Get("code"), provider.CodePrefix))
	assert.Equal(t, "state-nonce", parsed.Query().Get("state"))
}

func TestAuthenticateBadCredentials(t *testing.T) {
	fixture := newTestFixture(t)

	_, err := fixture.service.Authenticate("user", "wrong-password", authParams())
	require.ErrorIs(t, err, provider.ErrInvalidCredentials)

	_, err = fixture.service.Authenticate("no-such-user", "password", authParams())
	require.ErrorIs(t, err, provider.ErrInvalidCredentials)
}

func TestAuthenticateMissingRedirectURI(t *testing.T) {
	fixture := newTestFixture(t)
	params := authParams()
	params.RedirectURI = ""

	_, err := fixture.service.Authenticate("user", "password", params)
	require.ErrorIs(t, err, provider.ErrMissingRedirectURI)
}

func TestTokenExchangeHappyPath(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	resp, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: testVerifier,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.AccessToken, provider.AccessTokenPrefix))
	assert.True(t, strings.HasPrefix(resp.RefreshToken, provider.RefreshTokenPrefix))
	assert.Equal(t, oauthmodel.TokenTypeBearer, resp.TokenType)
	assert.Equal(t, int64(30), resp.ExpiresIn)
	assert.Equal(t, provider.DefaultScope, resp.Scope)
}

func TestTokenExchangeCodeIsSingleUse(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	req := oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: testVerifier,
	}

	_, err := fixture.service.Token(req)
	require.NoError(t, err)

	_, err = fixture.service.Token(req)
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)
}

func TestTokenExchangeExpiredCode(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	fixture.now = fixture.now.Add(authcode.DefaultTTL + time.Second)

	_, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: testVerifier,
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)
}

func TestTokenExchangeUnknownCode(t *testing.T) {
	fixture := newTestFixture(t)

	_, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         "mock_code_never_issued",
		CodeVerifier: testVerifier,
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)
}

func TestTokenExchangeMissingVerifier(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	_, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidRequest)
}

func TestTokenExchangeWrongVerifier(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	_, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: "not-the-right-verifier-at-all-1234567890abc",
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)
}

// A redemption that fails PKCE still burns the code: retrying with the
// correct verifier must not succeed.
func TestTokenExchangeFailedAttemptConsumesCode(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	_, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: "not-the-right-verifier-at-all-1234567890abc",
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)

	_, err = fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: testVerifier,
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)
}

func TestTokenExchangeBadClient(t *testing.T) {
	fixture := newTestFixture(t)

	tests := []struct {
		name   string
		mutate func(*oauthmodel.TokenRequest)
	}{
		{"wrong secret", func(r *oauthmodel.TokenRequest) { r.ClientSecret = "wrong-secret" }},
		{"unknown client", func(r *oauthmodel.TokenRequest) { r.ClientID = "no-such-client" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code := fixture.issueCode(t, authParams())
			req := oauthmodel.TokenRequest{
				GrantType:    oauthmodel.GrantTypeAuthorizationCode,
				ClientID:     testClientID,
				ClientSecret: testClientSecret,
				Code:         code,
				CodeVerifier: testVerifier,
			}
			tc.mutate(&req)

			_, err := fixture.service.Token(req)
			require.ErrorIs(t, err, oauthmodel.ErrInvalidClient)
		})
	}
}

func TestTokenExchangeWithoutPKCE(t *testing.T) {
	fixture := newTestFixture(t)
	params := authParams()
	params.CodeChallenge = ""
	params.CodeChallengeMethod = ""
	code := fixture.issueCode(t, params)

	resp, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestTokenRefreshGrant(t *testing.T) {
	fixture := newTestFixture(t)
	code := fixture.issueCode(t, authParams())

	first, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeAuthorizationCode,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Code:         code,
		CodeVerifier: testVerifier,
	})
	require.NoError(t, err)

	refreshed, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeRefreshToken,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RefreshToken: first.RefreshToken,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, refreshed.AccessToken)
	assert.Equal(t, first.RefreshToken, refreshed.RefreshToken)
}

func TestTokenRefreshGrantErrors(t *testing.T) {
	fixture := newTestFixture(t)

	_, err := fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeRefreshToken,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidRequest)

	_, err = fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeRefreshToken,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RefreshToken: "not_a_refresh_token",
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidGrant)

	_, err = fixture.service.Token(oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantTypeRefreshToken,
		ClientID:     testClientID,
		ClientSecret: "wrong-secret",
		RefreshToken: provider.RefreshTokenPrefix + "abc",
	})
	require.ErrorIs(t, err, oauthmodel.ErrInvalidClient)
}

func TestTokenUnsupportedGrant(t *testing.T) {
	fixture := newTestFixture(t)

	_, err := fixture.service.Token(oauthmodel.TokenRequest{GrantType: "client_credentials"})
	require.ErrorIs(t, err, oauthmodel.ErrUnsupportedGrantType)
}

func TestRegister(t *testing.T) {
	fixture := newTestFixture(t)

	require.NoError(t, fixture.service.Register("alice", "s3cret"))

	err := fixture.service.Register("alice", "s3cret")
	require.ErrorIs(t, err, provider.ErrUserExists)

	err = fixture.service.Register("", "s3cret")
	require.ErrorIs(t, err, provider.ErrMissingCredentials)

	_, err = fixture.service.Authenticate("alice", "s3cret", authParams())
	require.NoError(t, err)
}
