package heatmap

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Rasterize executes cmds onto dst. background may be nil, in which case
// background commands leave the surface as is.
func Rasterize(dst *image.RGBA, background image.Image, cmds []Command) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case KindBackground:
			if background == nil {
				continue
			}
			r := image.Rect(0, 0, cmd.Width, cmd.Height).Add(dst.Bounds().Min)
			xdraw.ApproxBiLinear.Scale(dst, r, background, background.Bounds(), xdraw.Over, nil)
		case KindDot:
			if cmd.Fill == nil {
				continue
			}
			fill := premultiply(*cmd.Fill)
			paintDisc(dst, cmd, func(float64) premul { return fill })
		case KindRadialGradient:
			if len(cmd.Stops) == 0 || cmd.Radius <= 0 {
				continue
			}
			paintDisc(dst, cmd, func(t float64) premul { return sampleStops(cmd.Stops, t) })
		}
	}
}

// premul is a premultiplied color with channels in [0,1].
type premul struct {
	r, g, b, a float64
}

func premultiply(c Color) premul {
	a := clamp01(c.A)
	return premul{
		r: float64(c.R) / 255 * a,
		g: float64(c.G) / 255 * a,
		b: float64(c.B) / 255 * a,
		a: a,
	}
}

// sampleStops interpolates between stops in premultiplied space, the way
// canvas gradients do. t is the normalized distance from the center.
func sampleStops(stops []ColorStop, t float64) premul {
	if t <= stops[0].Offset {
		return premultiply(stops[0].Color)
	}
	for i := 1; i < len(stops); i++ {
		hi := stops[i]
		if t > hi.Offset {
			continue
		}
		lo := stops[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return premultiply(hi.Color)
		}
		f := (t - lo.Offset) / span
		a, b := premultiply(lo.Color), premultiply(hi.Color)
		return premul{
			r: a.r + (b.r-a.r)*f,
			g: a.g + (b.g-a.g)*f,
			b: a.b + (b.b-a.b)*f,
			a: a.a + (b.a-a.a)*f,
		}
	}
	return premultiply(stops[len(stops)-1].Color)
}

// paintDisc visits every pixel whose center lies within the command's
// radius and composites shade(distance/radius) onto it.
func paintDisc(dst *image.RGBA, cmd Command, shade func(t float64) premul) {
	bounds := dst.Bounds()
	r := cmd.Radius
	x0 := max(int(math.Floor(cmd.X-r)), bounds.Min.X)
	y0 := max(int(math.Floor(cmd.Y-r)), bounds.Min.Y)
	x1 := min(int(math.Ceil(cmd.X+r)), bounds.Max.X)
	y1 := min(int(math.Ceil(cmd.Y+r)), bounds.Max.Y)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cmd.X
			dy := float64(y) + 0.5 - cmd.Y
			d := math.Hypot(dx, dy)
			if d > r {
				continue
			}
			src := shade(d / r)
			i := dst.PixOffset(x, y)
			if cmd.Composite == CompositeLighter {
				addPixel(dst.Pix[i:i+4], src)
			} else {
				overPixel(dst.Pix[i:i+4], src)
			}
		}
	}
}

// addPixel is the "lighter" operator: premultiplied sum, saturating.
func addPixel(px []uint8, src premul) {
	px[0] = addChannel(px[0], src.r)
	px[1] = addChannel(px[1], src.g)
	px[2] = addChannel(px[2], src.b)
	px[3] = addChannel(px[3], src.a)
}

func overPixel(px []uint8, src premul) {
	inv := 1 - src.a
	px[0] = toByte(src.r + float64(px[0])/255*inv)
	px[1] = toByte(src.g + float64(px[1])/255*inv)
	px[2] = toByte(src.b + float64(px[2])/255*inv)
	px[3] = toByte(src.a + float64(px[3])/255*inv)
}

func addChannel(dst uint8, src float64) uint8 {
	return toByte(float64(dst)/255 + src)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
