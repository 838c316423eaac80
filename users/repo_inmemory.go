package users

import (
	"errors"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
// Process-local and volatile: nothing survives a restart.
type InMemoryRepo struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{users: make(map[string]*User)}
}

func (r *InMemoryRepo) Upsert(user *User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if user.Username == "" {
		return errors.New("username cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	stored := *user
	r.users[user.Username] = &stored
	return nil
}

func (r *InMemoryRepo) Get(username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, ErrNotFound
	}

	found := *user
	return &found, nil
}

func (r *InMemoryRepo) Delete(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, username)
	return nil
}
