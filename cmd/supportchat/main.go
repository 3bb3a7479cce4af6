package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shivamsharmxa/AI-support-agent/internal/api"
	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
	"github.com/shivamsharmxa/AI-support-agent/internal/config"
	"github.com/shivamsharmxa/AI-support-agent/internal/events"
	"github.com/shivamsharmxa/AI-support-agent/internal/llm"
	"github.com/shivamsharmxa/AI-support-agent/internal/store/memory"
	"github.com/shivamsharmxa/AI-support-agent/internal/store/postgres"
	"github.com/shivamsharmxa/AI-support-agent/internal/store/sqlite"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("supportchat starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStore(ctx, cfg)

	completer := buildCompleter(cfg)
	if completer == nil {
		slog.Warn("no LLM credential configured — serving placeholder replies")
	}
	generator := llm.NewGenerator(completer, llm.SystemPrompt, cfg.LLMMaxTokens, slog.Default())

	// Events are optional — the server runs fine without NATS.
	var announcer chat.Announcer
	if cfg.NatsURL != "" {
		a, err := events.NewAnnouncer(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer a.Close()
		announcer = a
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	service := chat.NewService(store, generator, announcer, cfg.HistoryWindow, slog.Default())

	srv := api.NewServer(service, api.Options{
		Port:          cfg.Port,
		CORSOrigin:    cfg.CORSOrigin,
		ChatRateLimit: cfg.ChatRateLimit,
	}, slog.Default())

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("supportchat ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("supportchat stopped")
}

func openStore(ctx context.Context, cfg config.Config) chat.Store {
	switch {
	case cfg.DBMode == "memory":
		slog.Warn("using in-memory store — conversations will not survive a restart")
		return memory.New()
	case cfg.DatabaseURL != "":
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		slog.Info("postgres connected")
		return db
	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			slog.Error("failed to open sqlite database", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		slog.Info("sqlite opened", "path", cfg.SQLitePath)
		return db
	}
}

func buildCompleter(cfg config.Config) llm.Completer {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		client, err := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		slog.Info("gemini client ready", "model", cfg.GeminiModel)
		return client
	default:
		if cfg.AnthropicAPIKey == "" {
			return nil
		}
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
