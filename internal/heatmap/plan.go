package heatmap

import (
	"fmt"
	"strconv"

	"rift-rewind/internal/constants"
	"rift-rewind/internal/domain"
)

type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

var DefaultSize = Size{W: constants.HeatmapSurfaceW, H: constants.HeatmapSurfaceH}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project maps world coordinates onto the surface. World origin is bottom
// left, surface origin is top left, hence the flip on y. Out-of-range
// points are not clamped.
func Project(p domain.KillPosition, size Size) Point {
	w, h := float64(size.W), float64(size.H)
	return Point{
		X: p.X / constants.MapWorldSize * w,
		Y: h - p.Y/constants.MapWorldSize*h,
	}
}

// Color is a straight (non-premultiplied) RGBA color with alpha in [0,1].
type Color struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

type Composite string

const (
	CompositeSourceOver Composite = "source-over"
	// additive: overlapping points accumulate
	CompositeLighter Composite = "lighter"
)

type Kind string

const (
	KindBackground     Kind = "background"
	KindDot            Kind = "dot"
	KindRadialGradient Kind = "radial_gradient"
)

type Command struct {
	Kind      Kind        `json:"kind"`
	Composite Composite   `json:"composite"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Radius    float64     `json:"radius,omitempty"`
	Width     int         `json:"width,omitempty"`
	Height    int         `json:"height,omitempty"`
	Fill      *Color      `json:"fill,omitempty"`
	Stops     []ColorStop `json:"stops,omitempty"`
}

var rawDotColor = Color{R: 255, G: 0, B: 0, A: 0.6}

// Plan turns points into draw commands: the background first, then one
// command per point in input order. No points means no commands at all,
// not even the background.
func Plan(points []domain.KillPosition, cfg domain.RenderConfig, size Size) []Command {
	if len(points) == 0 {
		return nil
	}

	cmds := make([]Command, 0, len(points)+1)
	cmds = append(cmds, Command{
		Kind:      KindBackground,
		Composite: CompositeSourceOver,
		Width:     size.W,
		Height:    size.H,
	})

	var stops []ColorStop
	if cfg.Mode != domain.RenderModeRaw {
		stops = gradientStops(cfg.Intensity)
	}

	for _, kp := range points {
		p := Project(kp, size)
		if cfg.Mode == domain.RenderModeRaw {
			fill := rawDotColor
			cmds = append(cmds, Command{
				Kind:      KindDot,
				Composite: CompositeLighter,
				X:         p.X,
				Y:         p.Y,
				Radius:    constants.RawDotRadius,
				Fill:      &fill,
			})
			continue
		}
		cmds = append(cmds, Command{
			Kind:      KindRadialGradient,
			Composite: CompositeLighter,
			X:         p.X,
			Y:         p.Y,
			Radius:    float64(cfg.Intensity),
			Stops:     stops,
		})
	}
	return cmds
}

// gradientStops fades from a warm opaque center to a transparent edge,
// scaled by intensity/100.
func gradientStops(intensity int) []ColorStop {
	k := float64(intensity) / 100
	return []ColorStop{
		{Offset: 0, Color: Color{R: 255, G: 0, B: 0, A: 0.8 * k}},
		{Offset: 0.5, Color: Color{R: 255, G: 100, B: 0, A: 0.4 * k}},
		{Offset: 1, Color: Color{R: 255, G: 200, B: 0, A: 0}},
	}
}
