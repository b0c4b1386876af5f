// Package handler provides HTTP request handlers and the route table.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/travelog/travelog/internal/apierror"
)

// NotFound handles 404 responses for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apierror.Write(w, r, http.StatusNotFound, apierror.CodeNotFound,
		"Cannot "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierror.Write(w, r, http.StatusMethodNotAllowed, apierror.CodeMethodNotAllowed,
		"Method "+r.Method+" not allowed on "+r.URL.Path)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing left to tell the client.
		slog.Debug("failed to encode response", slog.String("error", err.Error()))
	}
}
