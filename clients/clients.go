package clients

import "crypto/subtle"

// Client is a statically registered OAuth2 client. This system registers a
// single confidential client: the BFF itself.
type Client struct {
	ID           string   `json:"id"`
	Secret       string   `json:"secret"`
	RedirectURIs []string `json:"redirectURIs,omitempty"`
}

// ValidSecret reports whether the presented secret matches the registered
// one. Constant-time compare: both values must match exactly.
func (c *Client) ValidSecret(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Secret), []byte(secret)) == 1
}
