package oauthmodel

// TokenTypeBearer is the only token_type this server issues.
const TokenTypeBearer = "Bearer"

// TokenResponse is the body returned by a successful token exchange.
// Both tokens are opaque random strings; nothing is encoded in them.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
}
