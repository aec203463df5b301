package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the response shape of the maintenance endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonMessage writes a bare {"message": ...} response (scanner endpoints).
func jsonMessage(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"message": message})
}

// jsonSuccess writes a {"success": true, "data": ...} envelope.
func jsonSuccess(w http.ResponseWriter, status int, data any) {
	jsonResponse(w, status, envelope{Success: true, Data: data})
}

// jsonFailure writes a {"success": false, "message": ...} envelope.
func jsonFailure(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, envelope{Success: false, Message: message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
