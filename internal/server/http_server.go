package server

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/errors"
	"github.com/clarkhq/clark-server/internal/logger"
)

// StartHTTPServer boots the HTTP server and registers all provided services
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)

	// register all services
	for _, reg := range registrars {
		reg.Register(router)
	}

	// browser clients poll from a different origin
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	return http.Serve(lis, handler)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

// WriteError maps err through the domain taxonomy and writes a JSON error
// body.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, errors.StatusCode(err), map[string]string{"error": err.Error()})
}
