package models

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx reply from the gateway and the bridge.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Error: message})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// WriteRaw relays an already encoded JSON document.
func WriteRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

const MsgRouteNotFound = "Route not found"

func InvalidJSON(err error) string {
	return "Invalid JSON: " + err.Error()
}
