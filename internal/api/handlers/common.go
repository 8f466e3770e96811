// Package handlers provides HTTP request handlers for the scanvault API.
// This file contains the response helpers shared by every handler.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anstrom/scanvault/internal/api/middleware"
	"github.com/anstrom/scanvault/internal/errors"
	"github.com/anstrom/scanvault/internal/logging"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON writes data as compact JSON.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	encode(w, statusCode, data, "")
}

// writeIndentedJSON writes data as JSON indented by four spaces, the layout
// paginated responses have always used.
func writeIndentedJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	encode(w, statusCode, data, "    ")
}

func encode(w http.ResponseWriter, statusCode int, data interface{}, indent string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(data); err != nil {
		logging.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError maps err to a status code and writes {"error": message}.
func writeError(w http.ResponseWriter, r *http.Request, logger *logging.Logger, err error) {
	status := errors.HTTPStatus(err)
	log := logger.WithRequestID(middleware.GetRequestID(r)).WithFields(
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", status,
		"code", errors.GetCode(err),
	)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Warn("Request rejected", "error", err)
	}

	writeJSON(w, status, ErrorResponse{Error: errors.PublicMessage(err)})
}

// requiredParam returns a query parameter that must be present. An empty
// value counts as present.
func requiredParam(r *http.Request, name string) (string, error) {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return "", errors.ErrMissingParameter(name)
	}
	return values[0], nil
}
