package provider

import "errors"

var (
	ErrMissingRedirectURI = errors.New("missing redirect_uri parameter")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUserExists         = errors.New("user already exists")
)
