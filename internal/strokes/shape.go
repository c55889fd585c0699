package strokes

import (
	"math"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"

	"github.com/gogpu/gg"
)

// ShapeKind selects the geometry of a Shape.
type ShapeKind string

const (
	ShapeLine        ShapeKind = "line"
	ShapeRectangle   ShapeKind = "rectangle"
	ShapeEllipse     ShapeKind = "ellipse"
	ShapeCubicBezier ShapeKind = "cubic_bezier"
)

// outline samples for curved shapes
const curveSamples = 48

// Shape is a geometric primitive in local coordinates placed by Transform.
// Line uses Start and End, Rectangle and Ellipse use them as opposite
// corners of their box, CubicBezier adds the two control points.
type Shape struct {
	Kind      ShapeKind `json:"kind"`
	Start     gg.Point  `json:"start"`
	End       gg.Point  `json:"end"`
	Ctrl1     gg.Point  `json:"ctrl1,omitempty"`
	Ctrl2     gg.Point  `json:"ctrl2,omitempty"`
	Transform gg.Matrix `json:"transform"`
	Style     Style     `json:"style"`
}

// NewShape builds a shape stroke with an identity transform.
func NewShape(kind ShapeKind, start, end gg.Point, style Style) *Stroke {
	return &Stroke{Kind: KindShape, Shape: &Shape{
		Kind:      kind,
		Start:     start,
		End:       end,
		Transform: gg.Identity(),
		Style:     style,
	}}
}

// NewCubicBezier builds a curve stroke.
func NewCubicBezier(p0, c1, c2, p1 gg.Point, style Style) *Stroke {
	s := NewShape(ShapeCubicBezier, p0, p1, style)
	s.Shape.Ctrl1, s.Shape.Ctrl2 = c1, c2
	return s
}

// localOutline returns the outline in local coordinates and whether it is
// closed.
func (s *Shape) localOutline() ([]gg.Point, bool) {
	switch s.Kind {
	case ShapeRectangle:
		c := geom.Corners(gg.NewRect(s.Start, s.End))
		return c[:], true
	case ShapeEllipse:
		r := gg.NewRect(s.Start, s.End)
		c, half := geom.Center(r), geom.Extents(r).Mul(0.5)
		pts := make([]gg.Point, curveSamples)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / curveSamples
			pts[i] = gg.Pt(c.X+half.X*math.Cos(a), c.Y+half.Y*math.Sin(a))
		}
		return pts, true
	case ShapeCubicBezier:
		bez := gg.NewCubicBez(s.Start, s.Ctrl1, s.Ctrl2, s.End)
		pts := make([]gg.Point, curveSamples+1)
		for i := range pts {
			pts[i] = bez.Eval(float64(i) / curveSamples)
		}
		return pts, false
	default:
		return []gg.Point{s.Start, s.End}, false
	}
}

func (s *Shape) outline() ([]gg.Point, bool) {
	pts, closed := s.localOutline()
	out := make([]gg.Point, len(pts))
	for i, p := range pts {
		out[i] = s.Transform.TransformPoint(p)
	}
	return out, closed
}

func (s *Shape) Bounds() gg.Rect {
	pts, _ := s.outline()
	return geom.Loosened(geom.RectFromPoints(pts...), s.Style.Width/2)
}

func (s *Shape) Hitboxes() []gg.Rect {
	pts, closed := s.outline()
	if s.Style.Fill != nil || len(pts) < 2 {
		return []gg.Rect{s.Bounds()}
	}
	if closed {
		pts = append(pts, pts[0])
	}
	var boxes []gg.Rect
	for i := 0; i < len(pts)-1; i += hitboxRun {
		end := min(i+hitboxRun, len(pts)-1)
		boxes = append(boxes, geom.Loosened(geom.RectFromPoints(pts[i:end+1]...), s.Style.Width/2))
	}
	return boxes
}

func (s *Shape) Translate(v gg.Point) {
	s.Transform = gg.Translate(v.X, v.Y).Multiply(s.Transform)
}

func (s *Shape) transform(m gg.Matrix) {
	s.Transform = m.Multiply(s.Transform)
}

func (s *Shape) clone() *Shape {
	c := *s
	if s.Style.Fill != nil {
		fill := *s.Style.Fill
		c.Style.Fill = &fill
	}
	return &c
}

func (s *Shape) genImages(viewport gg.Rect, scale float64) ([]render.Image, error) {
	t, ok := render.NewTarget(s.Bounds(), viewport, scale)
	if !ok {
		return nil, nil
	}
	img, err := rasterize(t, func(dc *gg.Context) error {
		pts, closed := s.outline()
		return polyline(dc, pts, s.Style, closed)
	})
	if err != nil {
		return nil, err
	}
	return []render.Image{img}, nil
}
