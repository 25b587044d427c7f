package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"photorestore/internal/billing"
	"photorestore/internal/http/handlers"
	httpapi "photorestore/internal/http/httpapi"
	"photorestore/internal/infra"
	"photorestore/internal/infra/clerk"
	"photorestore/internal/migrations"
	"photorestore/internal/observability"
	"photorestore/internal/providers/genai"
	"photorestore/internal/restoration"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register metrics")
	}

	prompt, err := restoration.LoadPrompt(cfg.RestorePromptFile)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.RestorePromptFile).Msg("failed to load restoration prompt")
	}

	modelLogger := logger.With().Str("component", "genai").Logger()
	model, err := genai.NewClient(ctx, genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &modelLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}
	if !model.Configured() {
		logger.Warn().Msg("GEMINI_API_KEY not set; every restoration will return the original image")
	}

	restorer := restoration.NewService(model,
		restoration.WithPrompt(prompt),
		restoration.WithTimeout(cfg.RestoreTimeout),
		restoration.WithObserver(metrics),
		restoration.WithLogger(logger.With().Str("component", "restoration").Logger()),
	)

	billingSvc, ready, closeDB := setupBilling(ctx, cfg, logger, metrics)
	defer closeDB()

	app := handlers.NewApp(cfg, logger, restorer, billingSvc, metrics.Handler())
	app.Ready = ready

	sessions := clerk.NewVerifier(clerk.Options{
		Issuer:            cfg.ClerkIssuer,
		JWKSURL:           cfg.ClerkJWKSURL,
		AuthorizedParties: cfg.ClerkAuthorizedParties,
	})
	router := httpapi.NewRouter(app, sessions)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("model", model.Model()).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RestoreTimeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// setupBilling wires the webhook service. Without DATABASE_URL events are
// only logged; with it the schema is migrated and events are stored.
func setupBilling(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, metrics *observability.Metrics) (*billing.Service, func(context.Context) error, func()) {
	billingLogger := logger.With().Str("component", "billing").Logger()

	var verifier *billing.Verifier
	if cfg.BillingWebhookSecret != "" {
		v, err := billing.NewVerifier(cfg.BillingWebhookSecret)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid CLERK_BILLING_WEBHOOK_SECRET")
		}
		verifier = v
	} else {
		logger.Warn().Msg("CLERK_BILLING_WEBHOOK_SECRET not set; billing webhooks will be rejected")
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if errors.Is(err, infra.ErrDatabaseDisabled) {
		return billing.NewService(verifier, billing.NewLogRecorder(billingLogger), metrics, billingLogger), nil, func() {}
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, pool); err != nil {
		pool.Close()
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	recorder := billing.NewPostgresRecorder(infra.NewSQLRunner(pool, logger.With().Str("component", "sql").Logger()))
	return billing.NewService(verifier, recorder, metrics, billingLogger), pool.Ping, pool.Close
}
