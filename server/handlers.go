package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oauthlab/go-bff-server/oauthmodel"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes the single-field error body the page scripts
// consume: {"error": message}.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeOAuthError serves a protocol error with its wire code and status.
// Anything that is not an *oauthmodel.Error is an internal failure and
// must not leak its message.
func writeOAuthError(w http.ResponseWriter, err error) {
	var oauthErr *oauthmodel.Error
	if !errors.As(err, &oauthErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
		return
	}
	writeJSON(w, oauthErr.Status, oauthErr)
}
