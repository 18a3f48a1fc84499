package utils

import (
	"encoding/json"
	"insta-marketplace/errs"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body for successful requests that return no data.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes data as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Str("component", "WriteJSON").Msg("")
	}
}

// WriteError maps err onto its status code and writes {"error": message}.
// Internal errors are logged with the request logger and replaced by a
// generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.GetErrorStatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	WriteJSON(w, status, ErrorResponse{Error: errs.Message(err)})
}
