package oauthmodel

// TokenRequest holds the form parameters of a call to the /oauth/token
// endpoint. Two grant types are supported: authorization_code and
// refresh_token.
type TokenRequest struct {
	// GrantType selects the grant. Required for all calls.
	GrantType GrantType

	// ClientID identifies the OAuth2 client making the request.
	ClientID string

	// ClientSecret authenticates the confidential client.
	// Security: never log or expose this value.
	ClientSecret string

	// Code is the single-use authorization code being redeemed.
	// Required for the authorization_code grant only.
	Code string

	// CodeVerifier is the PKCE verifier matching the code_challenge the
	// code was bound to. Required whenever the authorization request
	// carried a challenge.
	CodeVerifier string

	// RefreshToken is the long-lived credential for the refresh_token
	// grant.
	RefreshToken string
}
