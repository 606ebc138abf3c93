package logger

import (
	"os"

	"rift-rewind/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	return SetLevel(zerolog.DebugLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

// ApplyLevel raises the global level once configuration is known. The
// logger itself is built before config so config loading can log; config
// has already rejected an unknown LOG_LEVEL.
func ApplyLevel(cfg *config.Config, logger zerolog.Logger) {
	zerolog.SetGlobalLevel(cfg.Level)
	logger.Debug().Str("log_level", cfg.Level.String()).Msg("log level applied")
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(ApplyLevel),
)
