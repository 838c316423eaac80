package authcode

import "errors"

var (
	ErrNotFound = errors.New("authorization code not found")
	ErrExpired  = errors.New("authorization code expired")
)

// Repo stores pending authorizations keyed by code. Consume is the only
// read path: a successful lookup deletes the entry in the same critical
// section, which is what makes redemption exactly-once.
type Repo interface {
	Put(pending *PendingAuthorization) error
	Consume(code string) (*PendingAuthorization, error)
	Delete(code string) error
}
