package state

import (
	"InkBoard/internal/geom"

	"github.com/gogpu/gg"
)

// Spatial queries run over the non-trashed strokes and return keys in
// chronological order, so the last key is the topmost one.

// KeysIntersecting returns strokes whose bounds touch bounds.
func (s *Store) KeysIntersecting(bounds gg.Rect) []Handle {
	return s.filterSorted(func(k Handle) bool {
		return !s.trash[k].Trashed && geom.Intersects(s.strokes[k].stroke.Bounds(), bounds)
	})
}

// StrokeHitboxesContainPoint returns strokes inside viewport with a hitbox
// containing point.
func (s *Store) StrokeHitboxesContainPoint(viewport gg.Rect, point gg.Point) []Handle {
	return s.filterSorted(func(k Handle) bool {
		if s.trash[k].Trashed {
			return false
		}
		st := s.strokes[k].stroke
		if !geom.Intersects(st.Bounds(), viewport) || !st.Bounds().Contains(point) {
			return false
		}
		for _, hb := range st.Hitboxes() {
			if hb.Contains(point) {
				return true
			}
		}
		return false
	})
}

// TopmostAt returns the last drawn stroke under point.
func (s *Store) TopmostAt(viewport gg.Rect, point gg.Point) (Handle, bool) {
	keys := s.StrokeHitboxesContainPoint(viewport, point)
	if len(keys) == 0 {
		return Handle{}, false
	}
	return keys[len(keys)-1], true
}

// StrokesContainedInPolygon returns strokes enclosed by the closed polygon,
// either as a whole or with every hitbox inside. Fewer than three points
// enclose nothing.
func (s *Store) StrokesContainedInPolygon(poly []gg.Point) []Handle {
	if len(poly) < 3 {
		return nil
	}
	area := geom.RectFromPoints(poly...)
	return s.filterSorted(func(k Handle) bool {
		if s.trash[k].Trashed {
			return false
		}
		st := s.strokes[k].stroke
		b := st.Bounds()
		if !geom.Intersects(b, area) {
			return false
		}
		if geom.PolygonContainsRect(poly, b) {
			return true
		}
		for _, hb := range st.Hitboxes() {
			if !geom.PolygonContainsRect(poly, hb) {
				return false
			}
		}
		return true
	})
}

// StrokesContainedInAabb returns strokes enclosed by aabb, either as a
// whole or with every hitbox inside.
func (s *Store) StrokesContainedInAabb(aabb gg.Rect) []Handle {
	return s.filterSorted(func(k Handle) bool {
		if s.trash[k].Trashed {
			return false
		}
		st := s.strokes[k].stroke
		b := st.Bounds()
		if geom.ContainsRect(aabb, b) {
			return true
		}
		if !geom.Intersects(b, aabb) {
			return false
		}
		for _, hb := range st.Hitboxes() {
			if !geom.ContainsRect(aabb, hb) {
				return false
			}
		}
		return true
	})
}

// StrokesIntersectingPath returns strokes with a hitbox crossed by the open
// polyline. Fewer than two points cross nothing.
func (s *Store) StrokesIntersectingPath(path []gg.Point) []Handle {
	if len(path) < 2 {
		return nil
	}
	area := geom.RectFromPoints(path...)
	return s.filterSorted(func(k Handle) bool {
		if s.trash[k].Trashed {
			return false
		}
		st := s.strokes[k].stroke
		if !geom.Intersects(st.Bounds(), area) {
			return false
		}
		for _, hb := range st.Hitboxes() {
			if geom.PathIntersectsRect(path, hb) {
				return true
			}
		}
		return false
	})
}

// BoundsForStrokes returns the union of the bounds of the live keys.
func (s *Store) BoundsForStrokes(keys []Handle) (gg.Rect, bool) {
	var rs []gg.Rect
	for _, k := range keys {
		if e, ok := s.strokes[k]; ok {
			rs = append(rs, e.stroke.Bounds())
		}
	}
	return geom.UnionAll(rs)
}

// TrashCollidingStrokes trashes every visible stroke inside viewport with
// a hitbox touching eraser, returning the trashed keys.
func (s *Store) TrashCollidingStrokes(eraser, viewport gg.Rect) []Handle {
	keys := s.filterSorted(func(k Handle) bool {
		if s.trash[k].Trashed {
			return false
		}
		st := s.strokes[k].stroke
		b := st.Bounds()
		if !geom.Intersects(b, viewport) || !geom.Intersects(b, eraser) {
			return false
		}
		for _, hb := range st.Hitboxes() {
			if geom.Intersects(hb, eraser) {
				return true
			}
		}
		return false
	})
	s.SetTrashed(keys, true)
	return keys
}

// ContentBounds returns the union of the bounds of all non-trashed
// strokes.
func (s *Store) ContentBounds() (gg.Rect, bool) {
	return s.BoundsForStrokes(s.UntrashedKeys())
}
