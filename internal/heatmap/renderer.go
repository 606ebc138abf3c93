package heatmap

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"rift-rewind/internal/config"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/metrics"

	"github.com/rs/zerolog"
)

type BackgroundLoader interface {
	Load(ctx context.Context) (image.Image, error)
}

// FileBackground decodes the map image from disk on every load.
type FileBackground struct {
	Path string
}

func (f FileBackground) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map image %s: %w", f.Path, err)
	}
	return img, nil
}

type StaticBackground struct {
	Image image.Image
}

func (s StaticBackground) Load(context.Context) (image.Image, error) {
	return s.Image, nil
}

// Renderer owns the heatmap surface. Every Render starts from a fresh
// surface; there is no incremental update.
type Renderer struct {
	background BackgroundLoader
	size       Size
	logger     zerolog.Logger
}

func NewRenderer(cfg *config.Config, logger zerolog.Logger) *Renderer {
	return NewRendererWith(FileBackground{Path: cfg.MapImagePath}, DefaultSize, logger)
}

func NewRendererWith(background BackgroundLoader, size Size, logger zerolog.Logger) *Renderer {
	return &Renderer{
		background: background,
		size:       size,
		logger:     logger.With().Str("component", "heatmap").Logger(),
	}
}

func (r *Renderer) Size() Size {
	return r.size
}

func (r *Renderer) Plan(points []domain.KillPosition, cfg domain.RenderConfig) []Command {
	return Plan(points, cfg, r.size)
}

// Render returns nil without touching the background when there are no
// points. Nothing is drawn until the background has loaded.
func (r *Renderer) Render(ctx context.Context, points []domain.KillPosition, cfg domain.RenderConfig) (*image.RGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmds := r.Plan(points, cfg)
	if len(cmds) == 0 {
		r.logger.Debug().Msg("no kill positions, skipping render")
		return nil, nil
	}

	bg, err := r.background.Load(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load map background")
		return nil, fmt.Errorf("failed to load background: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.size.W, r.size.H))
	Rasterize(dst, bg, cmds)

	metrics.HeatmapRendersTotal.WithLabelValues(string(cfg.Mode)).Inc()
	r.logger.Debug().
		Int("points", len(points)).
		Int("intensity", cfg.Intensity).
		Str("mode", string(cfg.Mode)).
		Msg("heatmap rendered")

	return dst, nil
}

func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
