package handler

import (
	"net/http"

	"github.com/Dan9191/debt-indexation/internal/config"
	"github.com/Dan9191/debt-indexation/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires the public and admin routes
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/calculate", h.Calculate).Methods(http.MethodPost)
	r.HandleFunc("/inflation", h.Inflation).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	admin := r.PathPrefix("/").Subrouter()
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.HandleFunc("/calculations", h.History).Methods(http.MethodGet)
	admin.HandleFunc("/claims/notify", h.NotifyDebtor).Methods(http.MethodPost)

	return r
}
