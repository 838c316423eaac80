package bff

import "net/http"

// Cookie names. The flow cookies live only between signin and callback;
// the session cookies persist until logout.
const (
	// CookieState holds the CSRF state nonce between signin and callback.
	CookieState = "oauth_state"
	// CookieVerifier holds the PKCE code verifier between signin and callback.
	CookieVerifier = "code_verifier"
	// CookieRefreshToken is the HttpOnly session credential. The access
	// token is deliberately never written to a cookie: the page holds it
	// in memory and re-acquires it through the refresh endpoint.
	CookieRefreshToken = "refresh_token"
	// CookieLoggedIn is an advisory flag readable by page scripts and the
	// route gate. It carries no secret and is not a security boundary.
	CookieLoggedIn = "is_logged_in"
)

const (
	// flowCookieMaxAge bounds how long a signin attempt can stay pending.
	flowCookieMaxAge = 300
	// refreshCookieMaxAge is two weeks, the usual refresh-token horizon.
	refreshCookieMaxAge = 86400 * 14
)

// isSecureRequest reports whether cookies should carry the Secure flag.
// Behind a proxy the forwarded proto is authoritative.
func isSecureRequest(r *http.Request) bool {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto == "https"
	}
	return r.TLS != nil
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: httpOnly,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// SetFlowCookies stores the state nonce and PKCE verifier for the pending
// signin attempt.
func SetFlowCookies(w http.ResponseWriter, r *http.Request, state, verifier string) {
	setCookie(w, r, CookieState, state, flowCookieMaxAge, true)
	setCookie(w, r, CookieVerifier, verifier, flowCookieMaxAge, true)
}

// ClearFlowCookies expires the one-time signin cookies. Called as soon as
// they have been checked, success or not.
func ClearFlowCookies(w http.ResponseWriter) {
	clearCookie(w, CookieState)
	clearCookie(w, CookieVerifier)
}

// SetSessionCookies establishes the logged-in session: the HttpOnly
// refresh token plus the script-visible advisory flag.
func SetSessionCookies(w http.ResponseWriter, r *http.Request, refreshToken string) {
	setCookie(w, r, CookieRefreshToken, refreshToken, refreshCookieMaxAge, true)
	setCookie(w, r, CookieLoggedIn, "true", refreshCookieMaxAge, false)
}

// ClearSessionCookies expires the session cookies. Unconditional so that
// logout is idempotent.
func ClearSessionCookies(w http.ResponseWriter) {
	clearCookie(w, CookieRefreshToken)
	clearCookie(w, CookieLoggedIn)
}
