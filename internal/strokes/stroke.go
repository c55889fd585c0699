// Package strokes defines the stroke variants stored on a board and the
// capabilities every variant shares.
package strokes

import (
	"encoding/json"
	"fmt"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"

	"github.com/gogpu/gg"
)

// Kind tags the populated variant of a Stroke.
type Kind string

const (
	KindFreehand Kind = "freehand"
	KindShape    Kind = "shape"
	KindText     Kind = "text"
	KindVector   Kind = "vector_image"
	KindBitmap   Kind = "bitmap_image"
)

// Stroke is a closed variant. Exactly the field matching Kind is set.
type Stroke struct {
	Kind     Kind
	Freehand *Freehand
	Shape    *Shape
	Text     *RichText
	Vector   *VectorImage
	Bitmap   *BitmapImage
}

// Bounds returns the document box enclosing everything the stroke draws.
func (s *Stroke) Bounds() gg.Rect {
	switch s.Kind {
	case KindFreehand:
		return s.Freehand.Bounds()
	case KindShape:
		return s.Shape.Bounds()
	case KindText:
		return s.Text.Bounds()
	case KindVector:
		return s.Vector.Bounds()
	case KindBitmap:
		return s.Bitmap.Bounds()
	}
	return gg.Rect{}
}

// Hitboxes returns boxes for coarse hit testing. Their union is inside
// Bounds.
func (s *Stroke) Hitboxes() []gg.Rect {
	switch s.Kind {
	case KindFreehand:
		return s.Freehand.Hitboxes()
	case KindShape:
		return s.Shape.Hitboxes()
	case KindText:
		return s.Text.Hitboxes()
	}
	return []gg.Rect{s.Bounds()}
}

func (s *Stroke) Translate(v gg.Point) {
	switch s.Kind {
	case KindFreehand:
		s.Freehand.Translate(v)
	case KindShape:
		s.Shape.Translate(v)
	case KindText:
		s.Text.Translate(v)
	case KindVector:
		s.Vector.Translate(v)
	case KindBitmap:
		s.Bitmap.Translate(v)
	}
}

// Transform applies an affine map in document space.
func (s *Stroke) Transform(m gg.Matrix) {
	switch s.Kind {
	case KindFreehand:
		s.Freehand.Transform(m)
	case KindShape:
		s.Shape.transform(m)
	case KindText:
		s.Text.transform(m)
	case KindVector:
		s.Vector.transform(m)
	case KindBitmap:
		s.Bitmap.transform(m)
	}
}

// Rotate turns the stroke by angle radians around center.
func (s *Stroke) Rotate(angle float64, center gg.Point) {
	s.Transform(geom.RotateAbout(angle, center))
}

// Scale scales about the document origin.
func (s *Stroke) Scale(scale gg.Point) {
	s.Transform(gg.Scale(scale.X, scale.Y))
}

// Clone returns a deep copy.
func (s *Stroke) Clone() *Stroke {
	c := &Stroke{Kind: s.Kind}
	switch s.Kind {
	case KindFreehand:
		c.Freehand = s.Freehand.clone()
	case KindShape:
		c.Shape = s.Shape.clone()
	case KindText:
		c.Text = s.Text.clone()
	case KindVector:
		c.Vector = s.Vector.clone()
	case KindBitmap:
		c.Bitmap = s.Bitmap.clone()
	}
	return c
}

// GenImages rasterizes the part of the stroke inside viewport at scale
// pixels per document unit.
func (s *Stroke) GenImages(viewport gg.Rect, scale float64) ([]render.Image, error) {
	switch s.Kind {
	case KindFreehand:
		return s.Freehand.genImages(viewport, scale)
	case KindShape:
		return s.Shape.genImages(viewport, scale)
	case KindText:
		return s.Text.genImages(viewport, scale)
	case KindVector:
		return s.Vector.genImages(viewport, scale)
	case KindBitmap:
		return s.Bitmap.genImages(viewport, scale)
	}
	return nil, fmt.Errorf("strokes: unknown kind %q", s.Kind)
}

type wireStroke struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func (s *Stroke) MarshalJSON() ([]byte, error) {
	var payload any
	switch s.Kind {
	case KindFreehand:
		payload = s.Freehand
	case KindShape:
		payload = s.Shape
	case KindText:
		payload = s.Text
	case KindVector:
		payload = s.Vector
	case KindBitmap:
		payload = s.Bitmap
	default:
		return nil, fmt.Errorf("strokes: unknown kind %q", s.Kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireStroke{Kind: s.Kind, Data: data})
}

func (s *Stroke) UnmarshalJSON(b []byte) error {
	var w wireStroke
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = Stroke{Kind: w.Kind}
	var target any
	switch w.Kind {
	case KindFreehand:
		s.Freehand = &Freehand{Style: DefaultStyle()}
		target = s.Freehand
	case KindShape:
		s.Shape = &Shape{Kind: ShapeLine, Transform: gg.Identity(), Style: DefaultStyle()}
		target = s.Shape
	case KindText:
		s.Text = &RichText{Style: DefaultTextStyle(), Transform: gg.Identity()}
		target = s.Text
	case KindVector:
		s.Vector = &VectorImage{Transform: gg.Identity()}
		target = s.Vector
	case KindBitmap:
		s.Bitmap = &BitmapImage{Transform: gg.Identity()}
		target = s.Bitmap
	default:
		return fmt.Errorf("strokes: unknown kind %q", w.Kind)
	}
	if len(w.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(w.Data, target); err != nil {
		return err
	}
	if s.Text != nil {
		s.Text.Text = normalizeNewlines(s.Text.Text)
	}
	return nil
}
