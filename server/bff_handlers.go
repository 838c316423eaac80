package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/oauthlab/go-bff-server/bff"
)

// Signin starts the authorization flow server-side: it mints the state
// nonce and PKCE verifier, parks them in HttpOnly cookies, and bounces
// the browser to the authorization endpoint. The verifier never reaches
// page scripts.
func (s *Server) Signin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, state, verifier := s.bff.BeginFlow(r.Context(), requestOrigin(r))

		bff.SetFlowCookies(w, r, state, verifier)
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// Callback is the browser-redirect completion of the flow: validate,
// exchange, establish the session, then land on the dashboard.
func (s *Server) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// FormValue covers both GET query parameters and POST form data
		code := r.FormValue("code")
		state := r.FormValue("state")

		token, ok := s.completeExchange(w, r, code, state)
		if !ok {
			return
		}

		bff.SetSessionCookies(w, r, token.RefreshToken)
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

type loginRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// Login is the fetch-based completion of the flow: the page posts the
// code and state it received and gets JSON back instead of a redirect.
func (s *Server) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		token, ok := s.completeExchange(w, r, req.Code, req.State)
		if !ok {
			return
		}

		bff.SetSessionCookies(w, r, token.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// completeExchange runs the shared callback steps: CSRF check against the
// state cookie, then code-for-token exchange with the stored verifier.
// The CSRF check runs before any upstream call, so a forged state never
// burns the single-use code. The flow cookies are cleared as soon as they
// have been read, success or not.
func (s *Server) completeExchange(w http.ResponseWriter, r *http.Request, code, state string) (*oauth2.Token, bool) {
	stateCookie, stateErr := r.Cookie(bff.CookieState)
	verifierCookie, verifierErr := r.Cookie(bff.CookieVerifier)

	if code == "" || state == "" || stateErr != nil || verifierErr != nil {
		writeJSONError(w, "Missing required parameters or cookies", http.StatusBadRequest)
		return nil, false
	}

	if state != stateCookie.Value {
		log.Warn().Msg("state mismatch on callback")
		writeJSONError(w, "Invalid state (CSRF check failed)", http.StatusForbidden)
		return nil, false
	}

	bff.ClearFlowCookies(w)

	token, err := s.bff.Exchange(r.Context(), requestOrigin(r), code, verifierCookie.Value)
	if err != nil {
		s.relayUpstreamError(w, err, 0)
		return nil, false
	}

	return token, true
}

// relayUpstreamError serves a failed upstream token call. The
// authorization server's own response is propagated verbatim so the
// browser sees the real OAuth error; transport failures have nothing to
// relay and become a 502. forceStatus overrides the relayed status when
// non-zero.
func (s *Server) relayUpstreamError(w http.ResponseWriter, err error, forceStatus int) {
	status, body, ok := bff.UpstreamError(err)
	if !ok {
		log.Error().Err(err).Msg("upstream token call failed")
		writeJSONError(w, "upstream_error", http.StatusBadGateway)
		return
	}

	if forceStatus != 0 {
		status = forceStatus
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Refresh trades the refresh-token cookie for a fresh access token and
// hands it to the page as JSON. No token is written to a cookie here;
// the page keeps it in memory and calls again when it expires.
func (s *Server) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(bff.CookieRefreshToken)
		if err != nil || cookie.Value == "" {
			writeJSONError(w, "No refresh token", http.StatusUnauthorized)
			return
		}

		token, err := s.bff.Refresh(r.Context(), requestOrigin(r), cookie.Value)
		if err != nil {
			// A rejected refresh token means the session is over as far as
			// the page is concerned.
			s.relayUpstreamError(w, err, http.StatusUnauthorized)
			return
		}

		// Re-set the cookie only if the server rotated the token.
		if token.RefreshToken != "" && token.RefreshToken != cookie.Value {
			bff.SetSessionCookies(w, r, token.RefreshToken)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": token.AccessToken,
			"expires_in":   bff.ExpiresIn(token),
		})
	}
}

// Logout expires the session cookies. There is nothing to revoke
// upstream; the handler is idempotent by construction.
func (s *Server) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bff.ClearSessionCookies(w)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
