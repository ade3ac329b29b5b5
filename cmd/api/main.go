package main

import (
	"net/http"
	"os"
	"time"

	"pet-care-marketplace/internal/adapters/auth/gateway"
	"pet-care-marketplace/internal/platform/logger"
	"pet-care-marketplace/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{Log: log}

	// Sin AUTH_BASE_URL queda en modo dev (X-Debug-User-ID).
	if baseURL := os.Getenv("AUTH_BASE_URL"); baseURL != "" {
		client, err := gateway.NewClient(gateway.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("AUTH_API_KEY"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("invalid auth gateway config")
		}
		opts.AuthVerifier = gateway.NewVerifier(client)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
