package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"gridblitz.dev/platform/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	data, err := json.Marshal(v)
	if err != nil {
		log.Error("writeJSON marshal error", "err", err)
		return
	}

	if _, err := w.Write(data); err != nil {
		log.Error("writeJSON write error", "err", err)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: msg})
}

// writeError maps a core error kind to its HTTP status. Anything
// unrecognized falls through to 500, so this never recurses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case core.IsInvalidState(err):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case core.IsSeedMismatch(err):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case core.IsTimeout(err):
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
	default:
		log.Error("unhandled api error", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// requireBearer checks Authorization: Bearer <secret> against the
// configured cron secret. An empty configured secret always rejects,
// so the endpoint fails closed if it's never set.
func requireBearer(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	return len(auth) > len(prefix) && auth[:len(prefix)] == prefix && auth[len(prefix):] == secret
}

func getIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
