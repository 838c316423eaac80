package authcode_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oauthlab/go-bff-server/authcode"
)

func newPending(code string, now time.Time) *authcode.PendingAuthorization {
	return &authcode.PendingAuthorization{
		Code:      code,
		ClientID:  "practice-client-id",
		Status:    authcode.StateCodeIssued,
		CreatedAt: now,
		ExpiresAt: now.Add(authcode.DefaultTTL),
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	now := time.Now()
	repo := authcode.NewInMemoryRepo(authcode.WithNowFunc(func() time.Time { return now }))

	require.NoError(t, repo.Put(newPending("mock_code_abc", now)))

	pending, err := repo.Consume("mock_code_abc")
	require.NoError(t, err)
	assert.Equal(t, "practice-client-id", pending.ClientID)
	assert.Equal(t, authcode.StateExchanged, pending.Status)

	_, err = repo.Consume("mock_code_abc")
	require.ErrorIs(t, err, authcode.ErrNotFound)
}

func TestConsumeUnknownCode(t *testing.T) {
	repo := authcode.NewInMemoryRepo()
	_, err := repo.Consume("mock_code_missing")
	require.ErrorIs(t, err, authcode.ErrNotFound)
}

func TestConsumeExpiredCode(t *testing.T) {
	now := time.Now()
	repo := authcode.NewInMemoryRepo(authcode.WithNowFunc(func() time.Time { return now }))

	require.NoError(t, repo.Put(newPending("mock_code_old", now)))

	now = now.Add(authcode.DefaultTTL + time.Second)

	_, err := repo.Consume("mock_code_old")
	require.ErrorIs(t, err, authcode.ErrExpired)

	// The expired entry is gone: a retry is indistinguishable from an
	// unknown code.
	_, err = repo.Consume("mock_code_old")
	require.ErrorIs(t, err, authcode.ErrNotFound)
}

func TestConcurrentConsumeExactlyOnce(t *testing.T) {
	now := time.Now()
	repo := authcode.NewInMemoryRepo(authcode.WithNowFunc(func() time.Time { return now }))
	require.NoError(t, repo.Put(newPending("mock_code_race", now)))

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.Consume("mock_code_race")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, failures)
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	now := time.Now()
	repo := authcode.NewInMemoryRepo(authcode.WithNowFunc(func() time.Time { return now }))

	require.NoError(t, repo.Put(newPending("mock_code_live", now)))
	stale := newPending("mock_code_stale", now.Add(-2*authcode.DefaultTTL))
	require.NoError(t, repo.Put(stale))

	assert.Equal(t, 1, repo.Sweep())
	assert.Equal(t, 1, repo.Len())

	_, err := repo.Consume("mock_code_live")
	require.NoError(t, err)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to authcode.FlowState
		want     bool
	}{
		{authcode.StateStarted, authcode.StateAwaitingCredentials, true},
		{authcode.StateAwaitingCredentials, authcode.StateCodeIssued, true},
		{authcode.StateCodeIssued, authcode.StateExchanged, true},
		{authcode.StateExchanged, authcode.StateAuthenticated, true},
		{authcode.StateAuthenticated, authcode.StateLoggedOut, true},
		{authcode.StateLoggedOut, authcode.StateStarted, true},
		{authcode.StateExchanged, authcode.StateExchanged, false},
		{authcode.StateCodeIssued, authcode.StateAuthenticated, false},
		{authcode.StateLoggedOut, authcode.StateCodeIssued, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, authcode.CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
