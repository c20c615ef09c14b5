package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"greenerhq.com/greener/internal/agent"
	"greenerhq.com/greener/internal/api"
	"greenerhq.com/greener/internal/business"
	"greenerhq.com/greener/internal/cache"
	"greenerhq.com/greener/internal/metrics"
	"greenerhq.com/greener/internal/notify"
	"greenerhq.com/greener/internal/session"
	"greenerhq.com/greener/internal/storage"
	"greenerhq.com/greener/pkg/zerolog_config"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Info().Msg("Not found .env file, assuming environment variables are set")
	}

	// Configuration from environment
	elasticsearchURL := os.Getenv("ELASTICSEARCH_URL")
	backendURL := getEnvOrDefault("GREENER_API_URL", "https://api.greener.app")
	agentPort := getEnvOrDefault("AGENT_PORT", "8080")
	refreshInterval := getDurationOrDefault("REFRESH_INTERVAL", agent.DefaultRefreshInterval)

	if err := zerolog_config.Startup(elasticsearchURL, "sync-agent"); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logging")
	}

	log.Info().Msg("Starting greener-sync-agent service")

	stopMetrics := metrics.StartSystemMetricsCollection("sync-agent", 15*time.Second)
	defer stopMetrics()

	store, err := buildStore()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Couchbase")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resolver := session.NewResolver(store)
	if email := os.Getenv("GREENER_USER_EMAIL"); email != "" {
		err = resolver.SetIdentity(ctx, session.Identity{
			UserEmail:  email,
			UserType:   getEnvOrDefault("GREENER_USER_TYPE", "seller"),
			BusinessID: os.Getenv("GREENER_BUSINESS_ID"),
			AuthToken:  os.Getenv("GREENER_AUTH_TOKEN"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to store identity")
		}
	}

	client := api.NewClient(api.Config{
		BaseURL: backendURL,
		Session: resolver,
		Cache:   cache.New(store),
	})
	service := business.NewService(client)

	provider := &notify.StaticTokenProvider{
		TokenValue:   os.Getenv("EXPO_PUSH_TOKEN"),
		PlatformName: getEnvOrDefault("PUSH_PLATFORM", "web"),
	}
	notifier := notify.NewManager(store, provider, client, resolver)

	syncAgent := agent.NewAgent(service, notifier, refreshInterval)

	// Status and metrics HTTP server
	server := &http.Server{
		Addr:    ":" + agentPort,
		Handler: agent.SetupRoutes(syncAgent),
	}
	go func() {
		log.Info().
			Str("port", agentPort).
			Msg("Starting status server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().
				Err(err).
				Msg("Status server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	syncAgent.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Status server shutdown failed")
	}

	log.Info().Msg("greener-sync-agent stopped")
}

// buildStore selects the local KV backend: Couchbase when configured,
// in-process memory otherwise.
func buildStore() (storage.Store, error) {
	couchbaseURL := os.Getenv("COUCHBASE_URL")
	if couchbaseURL == "" {
		log.Info().Msg("COUCHBASE_URL not set, using in-memory store")
		return storage.NewMemoryStore(), nil
	}

	return storage.NewCouchbaseStore(
		couchbaseURL,
		getEnvOrDefault("COUCHBASE_USERNAME", "admin"),
		getEnvOrDefault("COUCHBASE_PASSWORD", "password"),
		getEnvOrDefault("COUCHBASE_BUCKET", "greener"),
	)
}

// Helper function to get environment variable with default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}
