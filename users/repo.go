package users

import "errors"

var ErrNotFound = errors.New("user not found")

// Repo is the narrow credential-store interface. The in-memory
// implementation is the only one shipped; a TTL-aware external store can
// be swapped in behind the same interface.
type Repo interface {
	Upsert(user *User) error
	Get(username string) (*User, error)
	Delete(username string) error
}
