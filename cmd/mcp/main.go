package main

import (
	"log/slog"
	"os"

	mcpadapter "github.com/KAwotwe/emma-digital-twin-mcp/internal/adapters/mcp"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/bootstrap"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/config"
	"github.com/KAwotwe/emma-digital-twin-mcp/internal/observability/logging"
)

const serverVersion = "1.0.0"

func main() {
	cfg := config.Load()

	// stdout carries the MCP stream, logs go to stderr.
	logger := logging.NewStderrJSONLogger("mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}

	srv := mcpadapter.NewServer(
		"emma-digital-twin",
		serverVersion,
		app.QueryUC,
		app.SessionUC,
		app.MonitoringUC,
	)

	if err := srv.ServeStdio(); err != nil {
		slog.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
