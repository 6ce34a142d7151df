// JuniorDebug relay server.
//
// The relay sits between a code-learning frontend and the LLM providers:
// it accepts a snippet plus a task, renders a fixed instruction prompt,
// dispatches it to the provider serving the requested model, and returns
// the normalized {code, explanations} result. Per-user provider keys are
// stored through a Supabase-compatible REST datastore.
//
// CLI Usage:
//
//	--addr=":8080"
//	  HTTP listen address. Overrides RELAY_ADDR and the config file.
//
//	--config="relay.yaml"
//	  Optional YAML config file with operational knobs.
//
//	--disable-auth
//	  Accept every request as a fixed development user. Development only.
//
//	--verbose / --quiet
//	  Adjust log verbosity.
//
// Environment Variables:
//   - GEMINI_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY: backend-default
//     provider credentials used when a request carries no per-user key
//   - SUPABASE_URL / SUPABASE_KEY: external identity and key datastore;
//     without them keys live in process memory
//   - AUTH_JWT_SECRET: enables local bearer token verification
//   - STRIPE_API_KEY / STRIPE_SUBSCRIPTION_ITEM: usage metering
//   - RELAY_ADDR / RELAY_ALLOWED_ORIGINS / DISABLE_AUTH: server knobs
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"juniordebug/internal/app"
	"juniordebug/internal/billing"
	"juniordebug/internal/config"
	"juniordebug/internal/keystore"
	"juniordebug/internal/llm"
	applog "juniordebug/internal/log"
)

const shutdownTimeout = 5 * time.Second

// loadEnvFile loads environment variables from a .env file if present. It
// tries the current directory first, then parent directories up to the
// root.
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env from current directory")
		return
	}

	workDir, err := os.Getwd()
	if err != nil {
		slog.Warn("could not determine working directory", "error", err)
		return
	}

	for dir := workDir; dir != "/"; dir = filepath.Dir(dir) {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				slog.Debug("loaded .env", "path", envPath)
				return
			}
		}
	}

	slog.Debug("no .env file found, using existing environment")
}

func newKeystore(cfg *config.Config) keystore.Store {
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		slog.Info("using Supabase key datastore", "url", cfg.SupabaseURL)
		return keystore.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	}
	slog.Warn("SUPABASE_URL not set, per-user keys are held in memory only")
	return keystore.NewMemory()
}

func newDispatcher(cfg *config.Config) *llm.Dispatcher {
	registry := llm.NewRegistry()
	registry.Register(llm.FamilyGemini, llm.NewGeminiProvider(llm.GeminiConfig{}))
	registry.Register(llm.FamilyOpenAI, llm.NewOpenAIProvider(llm.OpenAIConfig{}))
	registry.Register(llm.FamilyAnthropic, llm.NewAnthropicProvider(llm.AnthropicConfig{}))
	return llm.NewDispatcher(registry, cfg.DefaultCredential)
}

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config and RELAY_ADDR)")
	configPath := flag.String("config", "", "Path to optional YAML config file")
	disableAuth := flag.Bool("disable-auth", false, "Accept every request as a development user")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	quiet := flag.Bool("quiet", false, "Log warnings and errors only")
	flag.Parse()

	applog.Setup(*verbose, *quiet)
	loadEnvFile()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *disableAuth {
		cfg.DisableAuth = true
	}
	if cfg.DisableAuth {
		slog.Warn("authentication is disabled, all requests map to a development user")
	}

	store := newKeystore(cfg)
	meter := billing.NewMeter(cfg.StripeAPIKey, cfg.StripeSubscriptionItem)
	if meter.Enabled() {
		slog.Info("Stripe usage metering enabled")
	}

	a := app.New(cfg, store, newDispatcher(cfg), meter)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: a.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("relay listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
