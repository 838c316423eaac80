package oauthmodel

import "net/http"

// Error is an OAuth2 protocol error carrying the wire error code and the
// HTTP status it must be served with. The sentinels below are compared
// with errors.Is; WithDescription derives a copy so the sentinels stay
// immutable.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Status      int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// Is matches on the OAuth error code, so a described copy still matches
// its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithDescription returns a copy of the error with a human-readable
// description attached.
func (e *Error) WithDescription(description string) *Error {
	return &Error{Code: e.Code, Description: description, Status: e.Status}
}

var (
	ErrMissingParameters    = &Error{Code: "missing_parameters", Status: http.StatusBadRequest}
	ErrInvalidRequest       = &Error{Code: "invalid_request", Status: http.StatusBadRequest}
	ErrInvalidGrant         = &Error{Code: "invalid_grant", Status: http.StatusBadRequest}
	ErrInvalidClient        = &Error{Code: "invalid_client", Status: http.StatusUnauthorized}
	ErrUnsupportedGrantType = &Error{Code: "unsupported_grant_type", Status: http.StatusBadRequest}
)
