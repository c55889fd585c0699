package strokes

import (
	"image"

	"InkBoard/internal/render"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// rasterize draws with gg into a context mapped to the target's document
// area.
func rasterize(t render.Target, draw func(dc *gg.Context) error) (render.Image, error) {
	dc := gg.NewContext(t.W, t.H)
	defer dc.Close()
	dc.Transform(t.DocToPixel())
	if err := draw(dc); err != nil {
		return render.Image{}, err
	}
	return t.Image(render.ToRGBA(dc.Image())), nil
}

func setColor(dc *gg.Context, c Color) {
	dc.SetRGBA(c.R, c.G, c.B, c.A)
}

// polyline strokes pts and fills the closed polygon when fill is set.
func polyline(dc *gg.Context, pts []gg.Point, style Style, closed bool) error {
	if len(pts) == 0 {
		return nil
	}
	trace := func() {
		dc.MoveTo(pts[0].X, pts[0].Y)
		if len(pts) == 1 {
			// a dot still needs a segment for the round cap
			dc.LineTo(pts[0].X+0.01, pts[0].Y)
		}
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		if closed {
			dc.ClosePath()
		}
	}
	if style.Fill != nil && closed {
		trace()
		setColor(dc, *style.Fill)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if style.Width <= 0 {
		return nil
	}
	trace()
	setColor(dc, style.Color)
	dc.SetLineWidth(style.Width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return dc.Stroke()
}

// drawAffine composites src onto the target through the src-pixel to
// document transform m.
func drawAffine(t render.Target, src image.Image, m gg.Matrix) render.Image {
	dst := image.NewRGBA(image.Rect(0, 0, t.W, t.H))
	full := t.DocToPixel().Multiply(m)
	aff := f64.Aff3{full.A, full.B, full.C, full.D, full.E, full.F}
	xdraw.BiLinear.Transform(dst, aff, src, src.Bounds(), xdraw.Over, nil)
	return t.Image(dst)
}
