package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"rift-rewind/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBaseURL           string
	DefaultRegion        string
	DBPath               string
	ServerPort           string
	LogLevel             string
	Level                zerolog.Level
	MapImagePath         string
	StepTimeout          time.Duration
	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBaseURL:    strings.TrimSpace(getEnv("RIFT_API_BASE_URL", constants.DefaultAPIBaseURL)),
		DefaultRegion: getEnv("DEFAULT_REGION", constants.DefaultRegion),
		DBPath:        getEnv("DB_PATH", "riftrewind.db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		MapImagePath:  getEnv("MAP_IMAGE_PATH", "assets/riftmap.png"),
	}

	var err error
	if cfg.StepTimeout, err = getDuration("STEP_TIMEOUT", constants.ExternalAPITimeout); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", constants.SessionTTL); err != nil {
		return nil, err
	}
	if cfg.SessionPurgeInterval, err = getDuration("SESSION_PURGE_INTERVAL", constants.SessionPurgeInterval); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("RIFT_API_BASE_URL is required")
	}
	if cfg.Level, err = zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	logger.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Str("default_region", cfg.DefaultRegion).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("map_image_path", cfg.MapImagePath).
		Dur("step_timeout", cfg.StepTimeout).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

var Module = fx.Provide(Load)
