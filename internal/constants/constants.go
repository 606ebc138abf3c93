package constants

import "time"

const (
	DefaultRegion     = "americas"
	DefaultAPIBaseURL = "https://league-insights-ai.up.railway.app/"
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RecapTimeout       = 60 * time.Second
)

const (
	SessionTTL           = 2 * time.Hour
	SessionPurgeInterval = 10 * time.Minute
	SessionHeader        = "X-Session-ID"
	SessionQueryParam    = "session"
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// world coordinates span [0, MapWorldSize] on both axes
	MapWorldSize     = 15000.0
	HeatmapSurfaceW  = 800
	HeatmapSurfaceH  = 800
	DefaultIntensity = 50
	MinIntensity     = 10
	MaxIntensity     = 100
	RawDotRadius     = 3.0
)
