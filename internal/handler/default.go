package handler

import (
	"net/http"

	"message-api/internal/response"
)

// HomeHandler serves the health endpoint.
type HomeHandler struct{}

// NewHomeHandler returns a new HomeHandler.
func NewHomeHandler() *HomeHandler { return &HomeHandler{} }

// Health returns a basic status payload to indicate the API is running.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, response.HealthPayload{Status: "ok"})
}
