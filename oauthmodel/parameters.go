package oauthmodel

// ResponseType is the OAuth2 response_type parameter. Only the
// authorization code flow is supported.
type ResponseType string

const (
	ResponseTypeCode ResponseType = "code"
)

// CodeMethodType is the PKCE code_challenge_method parameter.
type CodeMethodType string

const (
	CodeMethodS256  CodeMethodType = "S256"
	CodeMethodPlain CodeMethodType = "plain"
)

// GrantType identifies the grant presented to the token endpoint.
type GrantType string

const (
	GrantTypeAuthorizationCode GrantType = "authorization_code"
	GrantTypeRefreshToken      GrantType = "refresh_token"
)

// AuthorizationParameters carries the query parameters of an OAuth2
// authorization request. The struct is transient: it travels through
// redirects as query parameters and is never persisted as a whole.
type AuthorizationParameters struct {
	ClientID            string         `json:"client_id"`
	RedirectURI         string         `json:"redirect_uri"`
	ResponseType        ResponseType   `json:"response_type"`
	State               string         `json:"state,omitempty"`
	CodeChallenge       string         `json:"code_challenge,omitempty"`
	CodeChallengeMethod CodeMethodType `json:"code_challenge_method,omitempty"`
}

// Validate checks the parameters every authorization request must carry.
// PKCE parameters are optional; state is recommended but not enforced here.
func (p *AuthorizationParameters) Validate() error {
	if p.ClientID == "" || p.RedirectURI == "" || p.ResponseType != ResponseTypeCode {
		return ErrMissingParameters
	}
	return nil
}

// ChallengeMethod returns the effective PKCE method: S256 is assumed when a
// challenge was sent without naming a method.
func (p *AuthorizationParameters) ChallengeMethod() CodeMethodType {
	if p.CodeChallenge != "" && p.CodeChallengeMethod == "" {
		return CodeMethodS256
	}
	return p.CodeChallengeMethod
}
