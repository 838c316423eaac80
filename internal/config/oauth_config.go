package config

import "time"

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetAccessTokenExpiry() time.Duration
	GetCodeSweepInterval() time.Duration
	GetUpstreamTimeout() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetClientID identifies the single registered confidential client: the
// BFF itself.
func (OAuth) GetClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "practice-client-id")
}

func (OAuth) GetClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "practice-client-secret")
}

// GetAccessTokenExpiry is short so silent refresh gets exercised.
func (OAuth) GetAccessTokenExpiry() time.Duration {
	return 30 * time.Second
}

func (OAuth) GetCodeSweepInterval() time.Duration {
	return time.Minute
}

func (OAuth) GetUpstreamTimeout() time.Duration {
	return 10 * time.Second
}
