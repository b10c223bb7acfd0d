package utils

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse is the envelope of every successful API reply
type SuccessResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// ErrorResponse is the body of every failed API reply.
// Fields is only set for request validation failures.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess wraps data in the success envelope
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// WriteOK writes a 200 OK envelope
func WriteOK(w http.ResponseWriter, message string, data interface{}) error {
	return WriteSuccess(w, http.StatusOK, message, data)
}

// WriteCreated writes a 201 Created envelope
func WriteCreated(w http.ResponseWriter, message string, data interface{}) error {
	return WriteSuccess(w, http.StatusCreated, message, data)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error body with the given status
func WriteError(w http.ResponseWriter, status int, detail string) error {
	return WriteJSON(w, status, ErrorResponse{Detail: detail})
}

// WriteBadRequest writes a 400 Bad Request response, with per-field messages when given
func WriteBadRequest(w http.ResponseWriter, detail string, fields map[string]string) error {
	return WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Detail: detail,
		Fields: fields,
	})
}

// WriteUnauthorized writes a 401 Unauthorized response with a Bearer challenge
func WriteUnauthorized(w http.ResponseWriter, detail string) error {
	if detail == "" {
		detail = "Authentication required"
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	return WriteError(w, http.StatusUnauthorized, detail)
}

// WriteForbidden writes a 403 Forbidden response
func WriteForbidden(w http.ResponseWriter, detail string) error {
	if detail == "" {
		detail = "Access forbidden"
	}
	return WriteError(w, http.StatusForbidden, detail)
}

// WriteNotFound writes a 404 Not Found response
func WriteNotFound(w http.ResponseWriter, detail string) error {
	if detail == "" {
		detail = "Resource not found"
	}
	return WriteError(w, http.StatusNotFound, detail)
}

// WriteTooManyRequests writes a 429 Too Many Requests response
func WriteTooManyRequests(w http.ResponseWriter, detail string) error {
	if detail == "" {
		detail = "Rate limit exceeded"
	}
	return WriteError(w, http.StatusTooManyRequests, detail)
}

// WriteInternalServerError writes a 500 Internal Server Error response
func WriteInternalServerError(w http.ResponseWriter, detail string) error {
	if detail == "" {
		detail = "Internal server error"
	}
	return WriteError(w, http.StatusInternalServerError, detail)
}
