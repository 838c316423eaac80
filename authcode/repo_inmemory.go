package authcode

import (
	"errors"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of Repo. Expiry
// is enforced lazily at consumption; StartSweeper adds an optional
// background sweep for memory hygiene.
type InMemoryRepo struct {
	mu      sync.Mutex
	pending map[string]*PendingAuthorization
	nowTime func() time.Time
}

// InMemoryRepoOption modifies the repo at construction time.
type InMemoryRepoOption func(*InMemoryRepo)

// WithNowFunc sets the clock (primarily for testing expiry).
func WithNowFunc(now func() time.Time) InMemoryRepoOption {
	return func(r *InMemoryRepo) {
		r.nowTime = now
	}
}

func NewInMemoryRepo(options ...InMemoryRepoOption) *InMemoryRepo {
	repo := &InMemoryRepo{
		pending: make(map[string]*PendingAuthorization),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(repo)
	}
	return repo
}

func (r *InMemoryRepo) Put(pending *PendingAuthorization) error {
	if pending == nil {
		return errors.New("pending authorization cannot be nil")
	}
	if pending.Code == "" {
		return errors.New("code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *pending
	if stored.Status == "" {
		stored.Status = StateCodeIssued
	}
	r.pending[pending.Code] = &stored
	return nil
}

// Consume atomically looks up, expiry-checks, and deletes the code. The
// entry is gone after the first call whatever the outcome, so a replayed
// code always fails with ErrNotFound even if the first redemption attempt
// failed a later check (PKCE, client secret).
func (r *InMemoryRepo) Consume(code string) (*PendingAuthorization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, exists := r.pending[code]
	if !exists {
		return nil, ErrNotFound
	}
	delete(r.pending, code)

	if pending.Expired(r.nowTime()) {
		return nil, ErrExpired
	}
	if !CanTransition(pending.Status, StateExchanged) {
		return nil, ErrNotFound
	}

	consumed := *pending
	consumed.Status = StateExchanged
	return &consumed, nil
}

func (r *InMemoryRepo) Delete(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, code)
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
// Lazy expiry at Consume already guarantees correctness; the sweep only
// keeps the map from accumulating codes that are never redeemed.
func (r *InMemoryRepo) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowTime()
	removed := 0
	for code, pending := range r.pending {
		if pending.Expired(now) {
			delete(r.pending, code)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored codes, expired or not.
func (r *InMemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// StartSweeper runs Sweep on the given interval until the returned stop
// function is called.
func (r *InMemoryRepo) StartSweeper(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
