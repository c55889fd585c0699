package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// PolygonContainsPoint uses the even-odd rule. The polygon is implicitly
// closed.
func PolygonContainsPoint(poly []gg.Point, p gg.Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PolygonContainsRect reports whether the whole box is inside the closed
// polygon: all corners inside and no polygon edge crossing a box edge.
func PolygonContainsRect(poly []gg.Point, r gg.Rect) bool {
	if len(poly) < 3 {
		return false
	}
	for _, c := range Corners(r) {
		if !PolygonContainsPoint(poly, c) {
			return false
		}
	}
	for i := range poly {
		edge := gg.NewLine(poly[i], poly[(i+1)%len(poly)])
		if LineIntersectsRectEdges(edge, r) {
			return false
		}
	}
	return true
}

// SegmentsIntersect reports whether two closed segments share a point.
func SegmentsIntersect(a, b gg.Line) bool {
	d1 := orient(b.P0, b.P1, a.P0)
	d2 := orient(b.P0, b.P1, a.P1)
	d3 := orient(a.P0, a.P1, b.P0)
	d4 := orient(a.P0, a.P1, b.P1)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(b.P0, b.P1, a.P0):
		return true
	case d2 == 0 && onSegment(b.P0, b.P1, a.P1):
		return true
	case d3 == 0 && onSegment(a.P0, a.P1, b.P0):
		return true
	case d4 == 0 && onSegment(a.P0, a.P1, b.P1):
		return true
	}
	return false
}

func orient(a, b, c gg.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p gg.Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// LineIntersectsRectEdges reports whether the segment crosses the border of r.
func LineIntersectsRectEdges(l gg.Line, r gg.Rect) bool {
	c := Corners(r)
	for i := range c {
		if SegmentsIntersect(l, gg.NewLine(c[i], c[(i+1)%4])) {
			return true
		}
	}
	return false
}

// LineIntersectsRect reports whether any part of the segment lies in r.
func LineIntersectsRect(l gg.Line, r gg.Rect) bool {
	if !Intersects(l.BoundingBox(), r) {
		return false
	}
	if r.Contains(l.P0) || r.Contains(l.P1) {
		return true
	}
	return LineIntersectsRectEdges(l, r)
}

// PathIntersectsRect reports whether the open polyline touches r.
func PathIntersectsRect(path []gg.Point, r gg.Rect) bool {
	switch len(path) {
	case 0:
		return false
	case 1:
		return r.Contains(path[0])
	}
	for i := 1; i < len(path); i++ {
		if LineIntersectsRect(gg.NewLine(path[i-1], path[i]), r) {
			return true
		}
	}
	return false
}
