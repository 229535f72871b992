// Package routes registers the HTTP endpoints onto a ServeMux.
package routes

import (
	"net/http"

	"message-api/internal/middleware"
	"message-api/internal/response"
)

// AppDeps carries the handlers and the token verifier the router needs.
type AppDeps struct {
	Home     HomeHandler
	Auth     AuthHandler
	Message  MessageHandler
	Verifier middleware.TokenVerifier
}

type HomeHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Query(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

// Register wires all routes. Message endpoints require a valid bearer
// token; health and login are open.
func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /health", d.Home.Health)
	mux.HandleFunc("POST /api/v1/auth/login", d.Auth.Login)

	authed := middleware.Authenticate(d.Verifier)
	mux.Handle("POST /api/v1/messages", authed(http.HandlerFunc(d.Message.Create)))
	mux.Handle("GET /api/v1/messages", authed(http.HandlerFunc(d.Message.Query)))
	mux.Handle("GET /api/v1/messages/{id}", authed(http.HandlerFunc(d.Message.GetByID)))
	mux.Handle("PATCH /api/v1/messages/{id}/status", authed(http.HandlerFunc(d.Message.UpdateStatus)))

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
