// Package render holds the rasterized images strokes produce and the worker
// pool that produces them off the event thread.
package render

import (
	"image"
	"image/draw"
	"math"

	"InkBoard/internal/geom"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// MaxSide caps the pixel size of a single generated image.
const MaxSide = 4096

// Image is a rasterized piece of a stroke. Bounds is the document area
// the pixels cover.
type Image struct {
	Bounds gg.Rect
	Pixels *image.RGBA
}

// Translated returns the image moved by v in document space. Pixels are
// shared.
func (img Image) Translated(v gg.Point) Image {
	img.Bounds = geom.Translate(img.Bounds, v)
	return img
}

// Target is the area of a stroke that gets rasterized for a viewport.
type Target struct {
	Area  gg.Rect
	Scale float64
	W, H  int
}

// NewTarget clips bounds to the viewport and sizes the raster for scale.
// It reports false when nothing would be drawn.
func NewTarget(bounds, viewport gg.Rect, scale float64) (Target, bool) {
	if scale <= 0 || !geom.Valid(bounds) {
		return Target{}, false
	}
	area, ok := geom.Intersection(geom.Loosened(bounds, 1), viewport)
	if !ok {
		return Target{}, false
	}
	w := int(math.Ceil(area.Width() * scale))
	h := int(math.Ceil(area.Height() * scale))
	if w <= 0 || h <= 0 {
		return Target{}, false
	}
	if w > MaxSide || h > MaxSide {
		f := float64(MaxSide) / float64(max(w, h))
		scale *= f
		w = min(MaxSide, max(1, int(math.Ceil(area.Width()*scale))))
		h = min(MaxSide, max(1, int(math.Ceil(area.Height()*scale))))
	}
	return Target{Area: area, Scale: scale, W: w, H: h}, true
}

// DocToPixel maps document coordinates into the target's pixel grid.
func (t Target) DocToPixel() gg.Matrix {
	return gg.Scale(t.Scale, t.Scale).Multiply(gg.Translate(-t.Area.Min.X, -t.Area.Min.Y))
}

// Image wraps pixels drawn for this target.
func (t Target) Image(px *image.RGBA) Image {
	return Image{Bounds: t.Area, Pixels: px}
}

// ToRGBA returns img as *image.RGBA, converting when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// Compose paints imgs over dst, which shows the document area at scale.
func Compose(dst *image.RGBA, area gg.Rect, scale float64, imgs []Image) {
	for _, img := range imgs {
		if img.Pixels == nil || !geom.Intersects(img.Bounds, area) {
			continue
		}
		lo := img.Bounds.Min.Sub(area.Min).Mul(scale)
		hi := img.Bounds.Max.Sub(area.Min).Mul(scale)
		r := image.Rect(int(math.Floor(lo.X)), int(math.Floor(lo.Y)), int(math.Ceil(hi.X)), int(math.Ceil(hi.Y)))
		if r.Dx() == img.Pixels.Bounds().Dx() && r.Dy() == img.Pixels.Bounds().Dy() {
			draw.Draw(dst, r, img.Pixels, img.Pixels.Bounds().Min, draw.Over)
			continue
		}
		xdraw.ApproxBiLinear.Scale(dst, r, img.Pixels, img.Pixels.Bounds(), xdraw.Over, nil)
	}
}
