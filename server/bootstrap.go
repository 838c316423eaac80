package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oauthlab/go-bff-server/clients"
	"github.com/oauthlab/go-bff-server/users"
)

// InitialiseSystem registers the confidential BFF client and seeds the
// default user, so the flow works end to end on a fresh start without
// touching the register endpoint. Both stores are volatile; this runs on
// every boot.
func (s *Server) InitialiseSystem() error {
	client := &clients.Client{
		ID:     s.config.GetClientID(),
		Secret: s.config.GetClientSecret(),
		RedirectURIs: []string{
			"http://localhost" + s.config.GetPort() + RouteBFFCallback,
		},
	}
	if err := s.repos.Clients.Upsert(client); err != nil {
		return fmt.Errorf("failed to register bff client: %w", err)
	}

	username := s.config.GetSeedUsername()
	if _, err := s.repos.Users.Get(username); err == nil {
		log.Info().Str("username", username).Msg("seed user already exists")
		return nil
	}

	hash, err := users.HashPassword(s.config.GetSeedPassword())
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	if err := s.repos.Users.Upsert(&users.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	log.Info().
		Str("client_id", client.ID).
		Str("username", username).
		Msg("system initialised")

	return nil
}
