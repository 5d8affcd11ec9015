package server

import (
	"encoding/json"
	"net/http"

	"commerce/connector/internal/resource"
)

type resourcePayload struct {
	Path       string         `json:"path"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

func payload(res resource.Resource) resourcePayload {
	return resourcePayload{
		Path:       res.Path(),
		Type:       string(res.Type()),
		Properties: res.Properties(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
