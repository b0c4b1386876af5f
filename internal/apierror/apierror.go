// Package apierror writes the JSON error envelope shared by handlers and middleware.
package apierror

import (
	"encoding/json"
	"net/http"
	"time"
)

// Error codes.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeConflict         = "CONFLICT"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// InternalMessage is the only message ever returned with a 500.
const InternalMessage = "Internal server error"

// Envelope is the body of every error response.
type Envelope struct {
	StatusCode int       `json:"statusCode"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Code       string    `json:"code"`
	// Error is a message string, or a structured object for validation failures.
	Error any `json:"error"`
}

// Write writes an error envelope with the given status.
func Write(w http.ResponseWriter, r *http.Request, status int, code string, detail any) {
	body := Envelope{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Truncate(time.Second),
		Path:       r.URL.Path,
		Code:       code,
		Error:      detail,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Unauthorized writes a 401 with a fixed message so failures cannot be told apart.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusUnauthorized, CodeUnauthorized, "Invalid or missing access token")
}

// Internal writes the generic 500 envelope.
func Internal(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusInternalServerError, CodeInternal, InternalMessage)
}
