package main

import (
	"log"
	"os"
	"time"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/api"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/broadcast"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/capture"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/insight"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/pipeline"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/registry"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/stores/analysis"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/sweeper"
	"github.com/meladine121/reverse-engineertoolforweb-emergent/pkg/utils"
)

// Start the API server
func main() {
	// Find env file
	envFile := ".env"
	if os.Getenv("ENV_FILE") != "" {
		envFile = os.Getenv("ENV_FILE")
	}

	// Load global config
	cfg := utils.NewConfigFromEnv(envFile)

	// Pick the persistence backend. Without a database URL the service
	// still runs with in-memory storage.
	var store analysis.Store
	if dsn := cfg.Get("DATABASE_URL"); dsn != "" {
		mysqlStore, err := analysis.NewMySqlStore(dsn)
		if err != nil {
			log.Fatalf("[MAIN]: Failed to connect to database: %v", err)
		}
		store = mysqlStore
	} else {
		log.Println("[MAIN]: DATABASE_URL not set, using in-memory storage")
		store = analysis.NewInMemoryStore()
	}
	defer store.Close()

	// Tech stack signatures can be overridden with a YAML file
	signatures := pipeline.DefaultSignatures()
	if path := cfg.Get("TECH_SIGNATURES_PATH"); path != "" {
		loaded, err := pipeline.LoadSignatures(path)
		if err != nil {
			log.Fatalf("[MAIN]: Failed to load tech signatures: %v", err)
		}
		signatures = loaded
	}

	// Assemble the analysis pipeline
	capturer := capture.NewChromeCapturer()
	generator := insight.NewOpenRouterGenerator(cfg.GetWithDefault("OPENROUTER_BASE_URL", insight.DefaultBaseURL))
	model := cfg.GetWithDefault("OPENROUTER_MODEL", insight.DefaultModel)
	orchestrator := pipeline.NewOrchestrator(capturer, generator, model, signatures)

	// Live monitoring state and fan-out
	sessions := registry.New()
	hub := broadcast.NewHub()

	// Close sessions that have gone idle
	ttl := time.Duration(cfg.GetIntWithDefault("SESSION_IDLE_TTL_MINUTES", 30)) * time.Minute
	idle := sweeper.New(sessions, ttl)
	if err := idle.Start(); err != nil {
		log.Fatalf("[MAIN]: Failed to start session sweeper: %v", err)
	}
	defer idle.Stop()

	// Start
	api.Start(cfg, api.Deps{
		Registry:     sessions,
		Hub:          hub,
		Orchestrator: orchestrator,
		Store:        store,
	})
}
