// main is the entry point of the student records service behind the
// dashboard.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the record store (in memory, or SQLite when storage_path is set)
//  4. Seed an empty store with generated students
//  5. Register all HTTP routes
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/http/handlers/student"
	"github.com/aanand-mishra/students-dashboard/internal/query"
	"github.com/aanand-mishra/students-dashboard/internal/seed"
	"github.com/aanand-mishra/students-dashboard/internal/storage/memory"
	"github.com/aanand-mishra/students-dashboard/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.1.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The store is constructed exactly once here and handed to everything
	// that needs it; nothing else holds a package-level collection.
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ── 4. Seed ───────────────────────────────────────────────────────────
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	seeded, err := seed.Populate(ctx, store, cfg.SeedCount, rng, time.Now())
	if err != nil {
		log.Error("failed to seed storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if seeded > 0 {
		log.Info("storage seeded", slog.Int("students", seeded))
	}

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	svc := query.NewService(store, cfg.Latency, log)
	router := http.NewServeMux()
	student.Register(router, svc)

	// ── 6. Create and Start the HTTP Server ───────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		// The write timeout must outlast the slowest simulated latency.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't want to log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	code := shutdown(shutdownCtx, server, closeStore, log)
	cancel()
	if code != 0 {
		os.Exit(code)
	}
}

// shutdown stops server, waiting for in-flight requests until ctx expires,
// then releases the store. It returns the process exit code: 1 when the
// server could not stop in time.
func shutdown(ctx context.Context, server *http.Server, closeStore func(), log *slog.Logger) int {
	err := server.Shutdown(ctx)
	closeStore()
	if err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return 1
	}

	log.Info("server stopped gracefully")
	return 0
}

// openStore picks the backend: SQLite when a storage path is configured,
// memory otherwise. The returned func releases the store.
func openStore(cfg *config.Config) (seed.Store, func(), error) {
	if cfg.StoragePath == "" {
		slog.Info("storage initialised", slog.String("backend", "memory"))
		return memory.New(), func() {}, nil
	}

	db, err := sqlite.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("storage initialised",
		slog.String("backend", "sqlite"),
		slog.String("path", cfg.StoragePath))
	return db, func() { db.Close() }, nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
