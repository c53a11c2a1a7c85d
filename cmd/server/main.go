package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/hatmapp/hatm/internal/auth"
	"github.com/hatmapp/hatm/internal/config"
	"github.com/hatmapp/hatm/internal/server"
	"github.com/hatmapp/hatm/internal/storage/sqlite"
	"github.com/hatmapp/hatm/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if cfg.BotToken == "" && !cfg.DevMode {
		slog.Error("BOT_TOKEN is required unless DEV_MODE=true")
		os.Exit(1)
	}
	if cfg.DevMode {
		slog.Warn("Dev mode enabled, init-data signatures are NOT verified")
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	srv := server.New(store, auth.NewValidator(cfg.BotToken, cfg.DevMode))

	addr := ":" + cfg.Port
	slog.Info("Hatm server starting", "address", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
