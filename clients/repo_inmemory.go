package clients

import (
	"errors"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo.
type InMemoryRepo struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{clients: make(map[string]*Client)}
}

func (r *InMemoryRepo) Upsert(client *Client) error {
	if client == nil {
		return errors.New("client cannot be nil")
	}
	if client.ID == "" {
		return errors.New("client id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *client
	stored.RedirectURIs = append([]string(nil), client.RedirectURIs...)
	r.clients[client.ID] = &stored
	return nil
}

func (r *InMemoryRepo) Get(clientID string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[clientID]
	if !exists {
		return nil, ErrNotFound
	}

	found := *client
	found.RedirectURIs = append([]string(nil), client.RedirectURIs...)
	return &found, nil
}

func (r *InMemoryRepo) Delete(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.clients, clientID)
	return nil
}
