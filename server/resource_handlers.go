package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/oauthlab/go-bff-server/resource"
)

// Profile serves the protected payload. The two rejection cases carry
// different statuses: no credential at all is 401, a credential that
// fails validation is 403.
func (s *Server) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.gate.Authorize(r.Header.Get("Authorization"))
		switch {
		case errors.Is(err, resource.ErrNoBearerToken):
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error":   "Unauthorized",
				"message": "Bearer token is missing",
			})
			return
		case errors.Is(err, resource.ErrInvalidToken):
			log.Warn().Msg("resource access denied: invalid token")
			writeJSON(w, http.StatusForbidden, map[string]string{
				"error":   "Forbidden",
				"message": "Invalid access token",
			})
			return
		}

		log.Debug().Int("token_len", len(token)).Msg("resource access granted")
		writeJSON(w, http.StatusOK, s.gate.Profile())
	}
}
