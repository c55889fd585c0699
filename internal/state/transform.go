package state

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/render"

	"github.com/gogpu/gg"
)

// Bulk geometry changes skip unknown handles. They leave chronology alone;
// callers that count the change as a content edit call UpdateChronoToLast.

// TranslateStrokes moves strokes by offset. Render caches stay valid; move
// them with TranslateStrokesImages.
func (s *Store) TranslateStrokes(keys []Handle, offset gg.Point) {
	for _, k := range keys {
		if st, ok := s.StrokeMut(k); ok {
			st.Translate(offset)
		}
	}
}

// TranslateStrokesImages moves the cached images of keys by offset.
func (s *Store) TranslateStrokesImages(keys []Handle, offset gg.Point) {
	for _, k := range keys {
		r, ok := s.render[k]
		if !ok {
			continue
		}
		moved := make([]render.Image, len(r.Images))
		for i, img := range r.Images {
			moved[i] = img.Translated(offset)
		}
		r.Images = moved
	}
}

// RotateStrokes turns strokes by angle radians around center.
func (s *Store) RotateStrokes(keys []Handle, angle float64, center gg.Point) {
	s.transformStrokes(keys, geom.RotateAbout(angle, center))
}

// ScaleStrokesWithPivot scales strokes keeping pivot fixed.
func (s *Store) ScaleStrokesWithPivot(keys []Handle, scale, pivot gg.Point) {
	s.transformStrokes(keys, geom.ScaleAbout(scale, pivot))
}

// ResizeStrokes maps strokes from oldBounds onto newBounds.
func (s *Store) ResizeStrokes(keys []Handle, oldBounds, newBounds gg.Rect) {
	scale := geom.DivSafe(geom.Extents(newBounds), geom.Extents(oldBounds))
	m := gg.Translate(newBounds.Min.X, newBounds.Min.Y).
		Multiply(gg.Scale(scale.X, scale.Y)).
		Multiply(gg.Translate(-oldBounds.Min.X, -oldBounds.Min.Y))
	s.transformStrokes(keys, m)
}

func (s *Store) transformStrokes(keys []Handle, m gg.Matrix) {
	for _, k := range keys {
		st, ok := s.StrokeMut(k)
		if !ok {
			continue
		}
		st.Transform(m)
		s.render[k].invalidate()
	}
}

// DuplicateSelection clones the selected strokes on top of the drawing
// order with identical geometry, selects the clones and deselects the
// originals.
func (s *Store) DuplicateSelection() []Handle {
	old := s.SelectionKeys()
	dups := make([]Handle, 0, len(old))
	for _, k := range old {
		h := s.Insert(s.strokes[k].stroke.Clone())
		if r := s.render[k]; r != nil {
			s.render[h].Images = append([]render.Image(nil), r.Images...)
		}
		dups = append(dups, h)
	}
	s.SetSelected(old, false)
	s.SetSelected(dups, true)
	return dups
}
