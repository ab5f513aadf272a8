package matching

import (
	"github.com/gorilla/mux"

	"github.com/vfuster66/matcha-42-sub000/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Matches
	api.HandleFunc("/matches", handler.DiscoverMatches).Methods("GET")

	// Fame rating
	api.HandleFunc("/fame/refresh", handler.RefreshFameRating).Methods("POST")
	api.HandleFunc("/fame/{userId:[0-9]+}", handler.GetFameRating).Methods("GET")
}
