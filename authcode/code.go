// Package authcode holds the authorization-code store: the single shared
// mutable resource of the authorization server. Codes are TTL-bound and
// strictly single-use; consumption is one atomic step so two concurrent
// redemption attempts can never both succeed.
package authcode

import (
	"time"

	"github.com/oauthlab/go-bff-server/oauthmodel"
)

// FlowState names the stages of the authorization-code flow. A
// PendingAuthorization is created in StateCodeIssued and moves to
// StateExchanged exactly once, inside Consume; the remaining states
// describe the surrounding BFF session lifecycle.
type FlowState string

const (
	StateStarted             FlowState = "started"
	StateAwaitingCredentials FlowState = "awaiting_credentials"
	StateCodeIssued          FlowState = "code_issued"
	StateExchanged           FlowState = "exchanged"
	StateAuthenticated       FlowState = "authenticated"
	StateLoggedOut           FlowState = "logged_out"
)

// transitions lists the states reachable from each state. Any failure in
// the flow discards the attempt entirely; there are no backward edges
// except restarting from scratch after logout.
var transitions = map[FlowState][]FlowState{
	StateStarted:             {StateAwaitingCredentials},
	StateAwaitingCredentials: {StateCodeIssued},
	StateCodeIssued:          {StateExchanged},
	StateExchanged:           {StateAuthenticated},
	StateAuthenticated:       {StateLoggedOut},
	StateLoggedOut:           {StateStarted},
}

// CanTransition reports whether the flow may move from one state to
// another.
func CanTransition(from, to FlowState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DefaultTTL is the lifetime of an issued authorization code.
const DefaultTTL = 60 * time.Second

// PendingAuthorization is the server-side record bound to an issued code.
// It carries everything the token endpoint needs to validate a redemption:
// the bound client and the PKCE challenge, if one was supplied.
type PendingAuthorization struct {
	Code                string
	ClientID            string
	CodeChallenge       string
	CodeChallengeMethod oauthmodel.CodeMethodType
	Status              FlowState
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// Expired reports whether the code is past its expiry at the given time.
func (p *PendingAuthorization) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
