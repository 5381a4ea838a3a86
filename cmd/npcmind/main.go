package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/emberfall/npcmind/internal/agent"
	"github.com/emberfall/npcmind/internal/api"
	"github.com/emberfall/npcmind/internal/bus"
	"github.com/emberfall/npcmind/internal/cognition"
	"github.com/emberfall/npcmind/internal/config"
	pgstore "github.com/emberfall/npcmind/internal/store"
	"github.com/emberfall/npcmind/internal/world"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	logger.Info("Starting npcmind...")

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/npcmind.json"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", cfgPath), zap.Error(err))
	}
	logger.Info("Config loaded", zap.String("path", cfgPath))

	// Initialize PostgreSQL snapshot store
	var pgStore *pgstore.Store
	if cfg.Database.Postgres.DSN != "" {
		ps, pgErr := pgstore.New(cfg.Database.Postgres.DSN, logger)
		if pgErr != nil {
			logger.Warn("PostgreSQL unavailable, running without persistence", zap.Error(pgErr))
		} else {
			if mErr := ps.Migrate(context.Background(), "migrations"); mErr != nil {
				logger.Fatal("migration failed", zap.Error(mErr))
			}
			pgStore = ps
		}
	}

	// Initialize agent engine and restore persisted agents
	engine := agent.NewEngine(logger)
	if pgStore != nil {
		infos, loadErr := pgStore.ListSnapshots(context.Background())
		if loadErr != nil {
			logger.Warn("failed to list snapshots", zap.Error(loadErr))
		} else {
			for _, info := range infos {
				data, err := pgStore.LoadSnapshot(context.Background(), info.AgentID)
				if err != nil {
					logger.Warn("failed to load snapshot",
						zap.String("agent", info.AgentID), zap.Error(err))
					continue
				}
				a, err := agent.Restore(data, cfg.Simulation.Seed, logger)
				if err != nil {
					logger.Warn("failed to restore agent",
						zap.String("agent", info.AgentID), zap.Error(err))
					continue
				}
				engine.Register(a)
			}
			logger.Info("Restored agents from DB", zap.Int("count", len(engine.List())))
		}
	}

	// Initialize event bus
	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	var eventBus *bus.EventBus
	if cfg.Database.Redis.URL != "" {
		eb, busErr := bus.NewEventBus(cfg.Database.Redis.URL, logger)
		if busErr != nil {
			logger.Warn("Redis unavailable, running without event bus", zap.Error(busErr))
		} else {
			eventBus = eb
			go bus.NewDispatcher(eventBus, engine, logger).Run(busCtx)
			logger.Info("Event bus initialized")
		}
	}

	// Initialize simulation clock
	clock := world.NewClock(
		time.Duration(cfg.Simulation.TickMillis)*time.Millisecond,
		cfg.Simulation.Speed,
		logger,
	)
	clock.AddListener(world.NewRunner(engine, logger))
	clock.Start()
	logger.Info("Simulation started",
		zap.Int("tick_millis", cfg.Simulation.TickMillis),
		zap.Float64("speed", cfg.Simulation.Speed))

	// Build HTTP handler
	seedFn := seedFromConfig(cfg)
	handler := api.NewHandler(engine, clock, pgStore, cfg.Simulation.Seed, seedFn, logger)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("npcmind listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down npcmind...")
	clock.Stop()
	busCancel()
	srv.Shutdown(context.Background())

	// Persist agents on the way out.
	if pgStore != nil {
		for _, a := range engine.List() {
			if err := pgStore.SaveSnapshot(context.Background(), a); err != nil {
				logger.Warn("failed to save snapshot",
					zap.String("agent", a.ID), zap.Error(err))
			}
		}
		pgStore.Close()
	}
	if eventBus != nil {
		eventBus.Close()
	}
}

// seedFromConfig builds the default-profile installer for new agents,
// overriding the built-in defaults with configured tuning values.
func seedFromConfig(cfg *config.Config) func(*agent.Agent) {
	return func(a *agent.Agent) {
		if cfg.Cognitive.SeedDefaults {
			agent.SeedDefaults(a)
		}
		if cfg.Cognitive.NegativityBias > 0 {
			a.Cognition.Bias.SetStrength(cognition.BiasNegativity, cfg.Cognitive.NegativityBias)
		}
		if cfg.Cognitive.BaseMotivation > 0 {
			a.Goals.Motivation.Base = cfg.Cognitive.BaseMotivation
		}
		if cfg.Cognitive.DesireThreshold > 0 {
			for name := range a.Goals.Desires.Thresholds {
				a.Goals.Desires.Thresholds[name] = cfg.Cognitive.DesireThreshold
			}
		}
		if cfg.Cognitive.DecayBaseRate > 0 {
			a.Memory.Decay.BaseRate = cfg.Cognitive.DecayBaseRate
		}
		if cfg.Cognitive.UncertaintyThreshold > 0 {
			a.Cognition.Decisions.UncertaintyThreshold = cfg.Cognitive.UncertaintyThreshold
		}
		for keyword, weight := range cfg.Cognitive.MemoryKeywords {
			a.Memory.Scorer.AddKeyword(keyword, weight)
		}
	}
}
