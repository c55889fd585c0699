package engine

import (
	"fmt"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"

	"github.com/gogpu/gg"
)

// Layout decides how the document grows with its content.
type Layout int

const (
	LayoutInfinite Layout = iota
	LayoutSemiInfinite
	LayoutContinuousVertical
	LayoutFixedSize
)

var layoutNames = map[Layout]string{
	LayoutInfinite:           "infinite",
	LayoutSemiInfinite:       "semi-infinite",
	LayoutContinuousVertical: "continuous-vertical",
	LayoutFixedSize:          "fixed-size",
}

func (l Layout) String() string {
	if s, ok := layoutNames[l]; ok {
		return s
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

func ParseLayout(s string) (Layout, error) {
	for l, name := range layoutNames {
		if name == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown layout %q", s)
}

func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Layout) UnmarshalText(b []byte) error {
	v, err := ParseLayout(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Format is the page size.
type Format struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the drawable area.
type Document struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Format Format  `json:"format"`
	Layout Layout  `json:"layout"`
}

// DefaultFormat is A4 at 96 dpi.
var DefaultFormat = Format{Width: 794, Height: 1123}

func NewDocument() Document {
	return Document{
		Width:  DefaultFormat.Width,
		Height: DefaultFormat.Height,
		Format: DefaultFormat,
		Layout: LayoutInfinite,
	}
}

func (d *Document) Bounds() gg.Rect {
	return geom.RectXYWH(d.X, d.Y, d.Width, d.Height)
}

func (d *Document) setBounds(r gg.Rect) {
	d.X, d.Y = r.Min.X, r.Min.Y
	d.Width, d.Height = r.Width(), r.Height()
}

// ResizeAutoexpand grows the document after content changes. Fixed size
// documents are left alone.
func (d *Document) ResizeAutoexpand(store *state.Store, cam *Camera) {
	if d.Layout == LayoutFixedSize {
		return
	}
	d.ResizeToFitStrokes(store, cam)
}

// ResizeToFitStrokes sizes the document to its content according to the
// layout.
func (d *Document) ResizeToFitStrokes(store *state.Store, cam *Camera) {
	content, ok := store.ContentBounds()
	pad := gg.Pt(d.Format.Width*2, d.Format.Height*2)
	page := geom.RectXYWH(0, 0, d.Format.Width, d.Format.Height)

	switch d.Layout {
	case LayoutFixedSize:
		h := d.Format.Height
		if ok && d.Format.Height > 0 {
			h = pageCeil(max(content.Max.Y, 1), d.Format.Height)
		}
		d.setBounds(geom.RectXYWH(0, 0, d.Format.Width, h))
	case LayoutContinuousVertical:
		h := d.Format.Height
		if ok {
			h += max(content.Max.Y, 0)
		}
		d.setBounds(geom.RectXYWH(0, 0, d.Format.Width, h))
	case LayoutSemiInfinite:
		b := page
		if ok {
			b = gg.Rect{Min: gg.Pt(0, 0), Max: content.Max.Add(pad)}
		}
		vp := cam.Viewport()
		b = b.Union(gg.Rect{Min: gg.Pt(0, 0), Max: vp.Max.Add(pad)})
		d.setBounds(b)
	default:
		b := page
		if ok {
			b = gg.Rect{Min: content.Min.Sub(pad), Max: content.Max.Add(pad)}
		}
		vp := cam.Viewport()
		b = b.Union(gg.Rect{Min: vp.Min.Sub(pad), Max: vp.Max.Add(pad)})
		d.setBounds(b)
	}
}

func pageCeil(v, page float64) float64 {
	n := int(v / page)
	if float64(n)*page < v {
		n++
	}
	return float64(max(n, 1)) * page
}
