package middleware

import (
	"encoding/json"
	"net/http"
)

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeFailure writes the API error envelope.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failure{Success: false, Error: msg})
}
