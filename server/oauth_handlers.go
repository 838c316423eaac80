package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/oauthlab/go-bff-server/oauthmodel"
	"github.com/oauthlab/go-bff-server/provider"
)

// Authorize validates the authorization request and bounces the browser
// to the login page with every parameter forwarded. Credentials are never
// collected on this endpoint.
func (s *Server) Authorize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := authorizationParamsFromQuery(r)

		loginURL, err := s.provider.Authorize(params, requestOrigin(r)+RouteLogin)
		if err != nil {
			writeOAuthError(w, err)
			return
		}

		http.Redirect(w, r, loginURL, http.StatusFound)
	}
}

func authorizationParamsFromQuery(r *http.Request) *oauthmodel.AuthorizationParameters {
	q := r.URL.Query()
	return &oauthmodel.AuthorizationParameters{
		ClientID:            q.Get("client_id"),
		RedirectURI:         q.Get("redirect_uri"),
		ResponseType:        oauthmodel.ResponseType(q.Get("response_type")),
		State:               q.Get("state"),
		CodeChallenge:       q.Get("code_challenge"),
		CodeChallengeMethod: oauthmodel.CodeMethodType(q.Get("code_challenge_method")),
	}
}

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	oauthmodel.AuthorizationParameters
}

// Authenticate checks the credentials posted by the login page and
// answers with the redirect target as data. The page performs the
// navigation itself, so a wrong password never burns the flow state.
func (s *Server) Authenticate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		redirectTo, err := s.provider.Authenticate(req.Username, req.Password, &req.AuthorizationParameters)
		switch {
		case errors.Is(err, provider.ErrMissingRedirectURI):
			writeJSONError(w, "Missing redirect_uri parameter", http.StatusBadRequest)
			return
		case errors.Is(err, provider.ErrInvalidCredentials):
			writeJSONError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		case err != nil:
			log.Error().Err(err).Msg("authenticate failed")
			writeJSONError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"redirect_to": redirectTo})
	}
}

// Token exchanges code/credentials for tokens
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeOAuthError(w, oauthmodel.ErrInvalidRequest.WithDescription("failed to parse form data"))
			return
		}

		tokenReq := oauthmodel.TokenRequest{
			GrantType:    oauthmodel.GrantType(r.FormValue("grant_type")),
			ClientID:     r.FormValue("client_id"),
			ClientSecret: r.FormValue("client_secret"),
			Code:         r.FormValue("code"),
			CodeVerifier: r.FormValue("code_verifier"),
			RefreshToken: r.FormValue("refresh_token"),
		}

		tokenResponse, err := s.provider.Token(tokenReq)
		if err != nil {
			writeOAuthError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(tokenResponse)
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register adds a user to the credential store.
func (s *Server) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		err := s.provider.Register(req.Username, req.Password)
		switch {
		case errors.Is(err, provider.ErrMissingCredentials):
			writeJSONError(w, "Username and password are required", http.StatusBadRequest)
			return
		case errors.Is(err, provider.ErrUserExists):
			writeJSONError(w, "User already exists", http.StatusConflict)
			return
		case err != nil:
			log.Error().Err(err).Msg("register failed")
			writeJSONError(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("username", req.Username).Msg("new user registered")
		writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
	}
}

// WellKnownOpenIDConfig serves the OIDC discovery document. The issuer is
// whatever origin the request arrived on, which keeps discovery working
// on any host or port the process is bound to.
func (s *Server) WellKnownOpenIDConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issuer := requestOrigin(r)

		resp := map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + RouteOAuthAuthorize,
			"token_endpoint":         issuer + RouteOAuthToken,
			"registration_endpoint":  issuer + RouteOAuthRegister,

			"response_types_supported": []string{"code"},
			"response_modes_supported": []string{"query"},
			"subject_types_supported":  []string{"public"},

			"scopes_supported": []string{provider.DefaultScope},

			"token_endpoint_auth_methods_supported": []string{
				"client_secret_post", // Credentials in POST body
			},

			"grant_types_supported": []string{
				"authorization_code",
				"refresh_token",
			},

			// PKCE support
			"code_challenge_methods_supported": []string{"S256", "plain"},
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
