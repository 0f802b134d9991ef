// Package response implements the uniform {success, message, data} envelope
// every endpoint replies with.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Error codes surfaced in the error envelope
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_ERROR"
)

// Envelope is the success payload wrapper
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorEnvelope is the failure payload wrapper
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes a success envelope with the given status code
func SendSuccess(w http.ResponseWriter, data interface{}, status int, message string) {
	writeJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError writes an error envelope with the given status and code
func SendError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorEnvelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// BadRequest writes a 400 validation error
func BadRequest(w http.ResponseWriter, message string) {
	SendError(w, http.StatusBadRequest, CodeValidation, message)
}

// Unauthorized writes a 401 error
func Unauthorized(w http.ResponseWriter, message string) {
	SendError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// NotFound writes a 404 error
func NotFound(w http.ResponseWriter, message string) {
	SendError(w, http.StatusNotFound, CodeNotFound, message)
}

// Internal writes a 500 error
func Internal(w http.ResponseWriter, message string) {
	SendError(w, http.StatusInternalServerError, CodeInternal, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
