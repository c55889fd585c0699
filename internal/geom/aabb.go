// Package geom collects the box, polygon and angle helpers the stroke store
// and the pens need on top of the gg geometry types.
package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// RectFromPoints returns the smallest box containing every point. It
// returns the zero Rect for no points.
func RectFromPoints(pts ...gg.Point) gg.Rect {
	if len(pts) == 0 {
		return gg.Rect{}
	}
	r := gg.Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// RectXYWH builds a box from its top-left corner and size.
func RectXYWH(x, y, w, h float64) gg.Rect {
	return gg.NewRect(gg.Pt(x, y), gg.Pt(x+w, y+h))
}

// FromHalfExtents builds a box centered at c.
func FromHalfExtents(c, half gg.Point) gg.Rect {
	return gg.Rect{Min: c.Sub(half), Max: c.Add(half)}
}

func Center(r gg.Rect) gg.Point {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Extents returns (width, height) as a vector.
func Extents(r gg.Rect) gg.Point {
	return r.Max.Sub(r.Min)
}

// Intersects reports whether the boxes overlap, touching edges included.
func Intersects(a, b gg.Rect) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// Intersection returns the overlap of two boxes and whether it is non-empty.
func Intersection(a, b gg.Rect) (gg.Rect, bool) {
	r := gg.Rect{
		Min: gg.Pt(math.Max(a.Min.X, b.Min.X), math.Max(a.Min.Y, b.Min.Y)),
		Max: gg.Pt(math.Min(a.Max.X, b.Max.X), math.Min(a.Max.Y, b.Max.Y)),
	}
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return gg.Rect{}, false
	}
	return r, true
}

// ContainsRect reports whether inner lies completely inside outer.
func ContainsRect(outer, inner gg.Rect) bool {
	return outer.Min.X <= inner.Min.X && outer.Min.Y <= inner.Min.Y &&
		outer.Max.X >= inner.Max.X && outer.Max.Y >= inner.Max.Y
}

func Translate(r gg.Rect, v gg.Point) gg.Rect {
	return gg.Rect{Min: r.Min.Add(v), Max: r.Max.Add(v)}
}

// Loosened grows the box by d on every side.
func Loosened(r gg.Rect, d float64) gg.Rect {
	return gg.Rect{Min: r.Min.Sub(gg.Pt(d, d)), Max: r.Max.Add(gg.Pt(d, d))}
}

// Corners returns the corners clockwise starting at the top-left.
func Corners(r gg.Rect) [4]gg.Point {
	return [4]gg.Point{
		r.Min,
		gg.Pt(r.Max.X, r.Min.Y),
		r.Max,
		gg.Pt(r.Min.X, r.Max.Y),
	}
}

// TransformRect returns the bounds of r after applying m.
func TransformRect(m gg.Matrix, r gg.Rect) gg.Rect {
	c := Corners(r)
	for i := range c {
		c[i] = m.TransformPoint(c[i])
	}
	return RectFromPoints(c[:]...)
}

// UnionAll returns the union of the boxes and false when there are none.
func UnionAll(rs []gg.Rect) (gg.Rect, bool) {
	if len(rs) == 0 {
		return gg.Rect{}, false
	}
	u := rs[0]
	for _, r := range rs[1:] {
		u = u.Union(r)
	}
	return u, true
}

// Valid reports whether the box has finite, ordered corners.
func Valid(r gg.Rect) bool {
	for _, v := range []float64{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

// ApproxEqual compares two boxes with an absolute tolerance.
func ApproxEqual(a, b gg.Rect, eps float64) bool {
	return math.Abs(a.Min.X-b.Min.X) <= eps && math.Abs(a.Min.Y-b.Min.Y) <= eps &&
		math.Abs(a.Max.X-b.Max.X) <= eps && math.Abs(a.Max.Y-b.Max.Y) <= eps
}
