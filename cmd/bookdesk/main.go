package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xaenox/bookdesk/internal/api"
	"github.com/xaenox/bookdesk/internal/ui"
	"github.com/xaenox/bookdesk/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Initialize logger; stdout belongs to the TUI, so zap writes to a file
	logger := newLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("Starting bookdesk",
		zap.String("base_url", cfg.Server.BaseURL),
		zap.Int64("user_id", cfg.Chat.UserID))

	// Initialize the backend client
	client := api.New(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second, logger)

	// Start the UI
	p := tea.NewProgram(ui.New(client, cfg.Chat.UserID, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Fatal("UI error", zap.Error(err))
	}
}

func newLogger(cfg config.LogConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.Path}
	zc.ErrorOutputPaths = []string{cfg.Path}

	logger, err := zc.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	return logger
}
