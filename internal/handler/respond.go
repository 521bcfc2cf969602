package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// response is the JSON envelope every endpoint replies with.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// genericInternalMessage is what clients see for uncategorized failures.
// The real error is only ever logged internally.
const genericInternalMessage = "something went wrong"

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

func respondValidationErrors(w http.ResponseWriter, messages []string) {
	respondError(w, http.StatusBadRequest, strings.Join(messages, "; "))
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
