package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medessence/medessence/internal/config"
	"github.com/medessence/medessence/internal/domain/classification"
	"github.com/medessence/medessence/internal/domain/generation"
	"github.com/medessence/medessence/internal/domain/orchestration"
	"github.com/medessence/medessence/internal/domain/retrieval"
	"github.com/medessence/medessence/internal/platform/db"
	"github.com/medessence/medessence/internal/platform/middleware"
	"github.com/medessence/medessence/internal/platform/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:   "medessence-server",
		Short: "Clinical report decision engine",
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Code catalog: Postgres when configured, embedded otherwise.
			var (
				codeRepo retrieval.CodeRepository
				pool     *pgxpool.Pool
			)
			if cfg.DatabaseURL != "" {
				poolCfg := db.DefaultConfig(cfg.DatabaseURL)
				poolCfg.MaxConns = cfg.DBMaxConns
				poolCfg.MinConns = cfg.DBMinConns
				pool, err = db.NewPool(ctx, poolCfg)
				if err != nil {
					return fmt.Errorf("connect database: %w", err)
				}
				defer pool.Close()
				codeRepo = retrieval.NewPGRepo(pool)
				logger.Info().Msg("using postgres code catalog")
			} else {
				codeRepo = retrieval.NewMemoryRepo(retrieval.SeedCatalog())
				logger.Info().Msg("using embedded code catalog")
			}

			tel := telemetry.New()

			weights := retrieval.DefaultWeights()
			weights.MinScore = cfg.RetrievalMinScore
			weights.MaxResults = cfg.RetrievalMaxResults
			codeEngine := retrieval.NewEngine(codeRepo, weights, logger)

			clsCfg := classification.DefaultConfig()
			clsCfg.OverlapBoost = cfg.OverlapBoost
			classifier := classification.New(clsCfg)

			ollama := generation.NewOllamaClient(cfg.OllamaURL, cfg.SafeMemoryFraction, cfg.LocalEmptyRetries, logger)
			genService := generation.NewService(generation.ServiceConfig{
				Providers:      buildProviders(cfg, ollama),
				Local:          generation.NewLocalProvider(ollama),
				CallTimeout:    cfg.GenerationTimeout(),
				MaxPromptChars: cfg.MaxPromptChars,
				CacheTTL:       cfg.CacheTTL(),
				CacheMaxSize:   cfg.CacheMaxEntries,
				Logger:         logger,
				Telemetry:      tel,
			})
			genService.StartCacheSweep(ctx, cfg.CacheSweepInterval())

			orch := orchestration.New(orchestration.Config{
				Classifier:          classifier,
				Generation:          genService,
				Retrieval:           codeEngine,
				ConfidenceThreshold: cfg.ConfidenceThreshold,
				EnsembleSize:        cfg.EnsembleSize,
				Logger:              logger,
				Telemetry:           tel,
			})

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(middleware.RequestID())
			e.Use(middleware.Logger(logger))
			e.Use(middleware.Recovery(logger))
			e.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimitRPS,
				BurstSize:         cfg.RateLimitBurst,
			}))
			e.Use(tel.Middleware())
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins: cfg.CORSOrigins,
			}))

			e.GET("/health", func(c echo.Context) error {
				if pool != nil {
					if err := db.Health(c.Request().Context(), pool); err != nil {
						return c.JSON(http.StatusServiceUnavailable, map[string]string{
							"status": "degraded", "database": err.Error(),
						})
					}
				}
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			})
			e.GET("/metrics", tel.Handler())

			api := e.Group("/api/v1")
			orchestration.NewHandler(orch).Register(api)
			generation.NewHandler(genService).Register(api)
			retrieval.NewHandler(codeEngine, codeRepo).Register(api)

			go func() {
				logger.Info().Str("port", cfg.Port).Msg("server starting")
				if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()

			<-ctx.Done()
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

// buildProviders assembles the cloud backend chain in the configured priority
// order, skipping providers without credentials.
func buildProviders(cfg *config.Config, ollama *generation.OllamaClient) []generation.Provider {
	var providers []generation.Provider
	for _, name := range cfg.ProviderOrder {
		switch name {
		case "anthropic":
			if cfg.AnthropicAPIKey != "" {
				providers = append(providers, generation.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel))
			}
		case "openai":
			if cfg.OpenAIAPIKey != "" {
				providers = append(providers, generation.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel))
			}
		case "gemini":
			if cfg.GeminiAPIKey != "" {
				providers = append(providers, generation.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel))
			}
		case "ollama":
			providers = append(providers, generation.NewLocalProvider(ollama))
		}
	}
	return providers
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create and seed the code catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for seeding")
			}
			logger := newLogger(cfg)

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			pool, err := db.NewPool(ctx, db.DefaultConfig(cfg.DatabaseURL))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			repo := retrieval.NewPGRepo(pool)
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			catalog := retrieval.SeedCatalog()
			if err := repo.Seed(ctx, catalog); err != nil {
				return err
			}
			logger.Info().Int("codes", len(catalog)).Msg("catalog seeded")
			return nil
		},
	}
}
