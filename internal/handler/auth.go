package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"message-api/internal/auth"
	"message-api/internal/request"
	"message-api/internal/response"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/v1/auth/login and returns a signed access token.
// Both unknown usernames and wrong passwords get the same generic answer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := request.Validate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.RespondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	response.RespondJSON(w, http.StatusOK, response.TokenPayload{AccessToken: token})
}
