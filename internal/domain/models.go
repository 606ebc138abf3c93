package domain

import (
	"errors"
	"fmt"
	"strings"

	"rift-rewind/internal/constants"
)

var (
	ErrInvalidIdentity   = errors.New("invalid player identity")
	ErrInvalidRiotID     = fmt.Errorf("%w: use GameName#TAG", ErrInvalidIdentity)
	ErrMissingNameOrTag  = fmt.Errorf("%w: both game name and tag are required", ErrInvalidIdentity)
	ErrInvalidRenderConf = errors.New("invalid render config")
)

type PlayerIdentity struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
	Region   string `json:"region"`
}

// ParseRiotID splits "Name#Tag". An empty region falls back to the
// default routing region.
func ParseRiotID(input, region string) (PlayerIdentity, error) {
	parts := strings.Split(strings.TrimSpace(input), "#")
	if len(parts) != 2 {
		return PlayerIdentity{}, ErrInvalidRiotID
	}

	gameName, tagLine := parts[0], parts[1]
	if gameName == "" || tagLine == "" {
		return PlayerIdentity{}, ErrMissingNameOrTag
	}

	if region == "" {
		region = constants.DefaultRegion
	}

	return PlayerIdentity{GameName: gameName, TagLine: tagLine, Region: region}, nil
}

func (p PlayerIdentity) String() string {
	return p.GameName + "#" + p.TagLine
}

// KillPosition is a point in world space, [0, 15000] on both axes with
// the origin at the bottom left.
type KillPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RenderMode string

const (
	RenderModeHeatmap RenderMode = "heatmap"
	RenderModeRaw     RenderMode = "raw"
)

type RenderConfig struct {
	Intensity int        `json:"intensity"`
	Mode      RenderMode `json:"mode"`
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{Intensity: constants.DefaultIntensity, Mode: RenderModeHeatmap}
}

// ParseRenderConfig fills zero values with defaults and validates the rest.
func ParseRenderConfig(intensity int, mode string) (RenderConfig, error) {
	cfg := DefaultRenderConfig()
	if intensity != 0 {
		cfg.Intensity = intensity
	}
	if mode != "" {
		cfg.Mode = RenderMode(strings.ToLower(mode))
	}
	if err := cfg.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return cfg, nil
}

func (c RenderConfig) Validate() error {
	if c.Intensity < constants.MinIntensity || c.Intensity > constants.MaxIntensity {
		return fmt.Errorf("%w: intensity %d outside [%d, %d]", ErrInvalidRenderConf, c.Intensity, constants.MinIntensity, constants.MaxIntensity)
	}
	switch c.Mode {
	case RenderModeHeatmap, RenderModeRaw:
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRenderConf, c.Mode)
	}
}
