package logger

import (
	"log/slog"
	"os"

	"github.com/reelmint-wallet-gateway/internal/config"
)

// NewLogger builds the process-wide JSON slog.Logger. Both binaries log to
// stdout; collection and shipping are the deployment's problem.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Source locations are only worth the noise when debugging
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))

	logger.Info("logger initialized",
		"level", level,
		"app_name", cfg.Application.Name,
	)

	return logger
}
