// Package resource is the mock resource server: a protected profile
// endpoint behind a bearer-token gate. The gate is a shape check, not a
// token introspection; it exists so the BFF flow has a realistic
// protected API to call with the access token it holds in memory.
package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/oauthlab/go-bff-server/provider"
)

const bearerScheme = "Bearer "

var (
	// ErrNoBearerToken means the Authorization header was absent or not a
	// Bearer credential. Served as 401.
	ErrNoBearerToken = errors.New("bearer token is missing")

	// ErrInvalidToken means a Bearer token was presented but failed the
	// shape check. Served as 403.
	ErrInvalidToken = errors.New("invalid access token")
)

// Gate validates incoming bearer credentials.
type Gate struct {
	tokenPrefix string
	nowTime     func() time.Time
}

// GateOption modifies the Gate at construction time.
type GateOption func(*Gate)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) GateOption {
	return func(g *Gate) {
		g.nowTime = nowFunc
	}
}

func NewGate(options ...GateOption) *Gate {
	gate := &Gate{
		tokenPrefix: provider.AccessTokenPrefix,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(gate)
	}
	return gate
}

// Authorize checks an Authorization header value and returns the accepted
// token. Distinguishing a missing credential from a rejected one matters
// to callers: the two map to different HTTP statuses.
func (g *Gate) Authorize(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, bearerScheme) {
		return "", ErrNoBearerToken
	}

	token := strings.TrimPrefix(authHeader, bearerScheme)
	if !strings.HasPrefix(token, g.tokenPrefix) {
		return "", ErrInvalidToken
	}

	return token, nil
}

// Profile is the protected payload.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	SecretData string    `json:"secret_data"`
	Timestamp  time.Time `json:"timestamp"`
}

// Profile returns the canned protected payload stamped with the current
// time, so repeated calls are distinguishable.
func (g *Gate) Profile() Profile {
	return Profile{
		ID:         "user_123",
		Email:      "user@example.com",
		SecretData: "Sensitive data served by the protected resource API.",
		Timestamp:  g.nowTime(),
	}
}
