package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"earnpro/middleware"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "earnpro-api",
	})
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// CORS - origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"http://localhost:3000", "http://localhost:8080",
		"http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv != "" {
		parts := strings.Split(originsEnv, ",")
		for _, p := range parts {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/v1").Subrouter()

	// Catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	api.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// Protected ping for smoke tests
	api.Handle("/ping", middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "pong",
		})
	}))).Methods(http.MethodGet)

	UsersRoutes(api)
	SetAdminRoutes(api)

	return r
}
