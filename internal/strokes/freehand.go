package strokes

import (
	"math"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"

	"github.com/gogpu/gg"
)

// segments merged into one hitbox
const hitboxRun = 4

// Element is one sampled input point of a freehand path.
type Element struct {
	Pos      gg.Point `json:"pos"`
	Pressure float64  `json:"pressure"`
}

// Freehand is a pen path in document coordinates.
type Freehand struct {
	Elements []Element `json:"elements"`
	Style    Style     `json:"style"`
}

// NewFreehandPath builds a freehand stroke through pts with full pressure.
func NewFreehandPath(style Style, pts ...gg.Point) *Stroke {
	f := &Freehand{Style: style}
	for _, p := range pts {
		f.Elements = append(f.Elements, Element{Pos: p, Pressure: 1})
	}
	return &Stroke{Kind: KindFreehand, Freehand: f}
}

// weight scales the stroke width. Missing pressure counts as full.
func (e Element) weight() float64 {
	if e.Pressure <= 0 {
		return 1
	}
	return e.Pressure
}

func (f *Freehand) points() []gg.Point {
	pts := make([]gg.Point, len(f.Elements))
	for i, e := range f.Elements {
		pts[i] = e.Pos
	}
	return pts
}

func (f *Freehand) halfWidth() float64 {
	return f.Style.Width / 2
}

func (f *Freehand) Bounds() gg.Rect {
	return geom.Loosened(geom.RectFromPoints(f.points()...), f.halfWidth())
}

func (f *Freehand) Hitboxes() []gg.Rect {
	pts := f.points()
	if len(pts) < 2 {
		return []gg.Rect{f.Bounds()}
	}
	var boxes []gg.Rect
	for i := 0; i < len(pts)-1; i += hitboxRun {
		end := min(i+hitboxRun, len(pts)-1)
		boxes = append(boxes, geom.Loosened(geom.RectFromPoints(pts[i:end+1]...), f.halfWidth()))
	}
	return boxes
}

func (f *Freehand) Translate(v gg.Point) {
	for i := range f.Elements {
		f.Elements[i].Pos = f.Elements[i].Pos.Add(v)
	}
}

func (f *Freehand) Transform(m gg.Matrix) {
	for i := range f.Elements {
		f.Elements[i].Pos = m.TransformPoint(f.Elements[i].Pos)
	}
	det := math.Abs(m.A*m.E - m.B*m.D)
	f.Style.Width *= math.Sqrt(det)
}

func (f *Freehand) clone() *Freehand {
	c := *f
	c.Elements = append([]Element(nil), f.Elements...)
	if f.Style.Fill != nil {
		fill := *f.Style.Fill
		c.Style.Fill = &fill
	}
	return &c
}

func (f *Freehand) genImages(viewport gg.Rect, scale float64) ([]render.Image, error) {
	if len(f.Elements) == 0 {
		return nil, nil
	}
	t, ok := render.NewTarget(f.Bounds(), viewport, scale)
	if !ok {
		return nil, nil
	}
	img, err := rasterize(t, func(dc *gg.Context) error {
		if f.uniformPressure() {
			style := f.Style
			style.Width *= f.Elements[0].weight()
			return polyline(dc, f.points(), style, false)
		}
		for i := 1; i < len(f.Elements); i++ {
			a, b := f.Elements[i-1], f.Elements[i]
			style := f.Style
			style.Width *= (a.weight() + b.weight()) / 2
			if err := polyline(dc, []gg.Point{a.Pos, b.Pos}, style, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []render.Image{img}, nil
}

func (f *Freehand) uniformPressure() bool {
	for _, e := range f.Elements[1:] {
		if e.Pressure != f.Elements[0].Pressure {
			return false
		}
	}
	return true
}
