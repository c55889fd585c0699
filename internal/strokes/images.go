package strokes

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"

	"github.com/gogpu/gg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ErrEmptyImage is returned when an image stroke has no content to draw.
var ErrEmptyImage = errors.New("strokes: empty image")

// VectorImage is an SVG document. Transform maps the intrinsic Size box
// into the document.
type VectorImage struct {
	SVG       string    `json:"svg"`
	Size      gg.Point  `json:"size"`
	Transform gg.Matrix `json:"transform"`
}

// NewVectorImage parses svg for its intrinsic size and places it at pos.
func NewVectorImage(svg string, pos gg.Point) (*Stroke, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	size := gg.Pt(icon.ViewBox.W, icon.ViewBox.H)
	if size.X <= 0 || size.Y <= 0 {
		return nil, ErrEmptyImage
	}
	return &Stroke{Kind: KindVector, Vector: &VectorImage{
		SVG:       svg,
		Size:      size,
		Transform: gg.Translate(pos.X, pos.Y),
	}}, nil
}

func (v *VectorImage) Bounds() gg.Rect {
	return geom.TransformRect(v.Transform, geom.RectXYWH(0, 0, v.Size.X, v.Size.Y))
}

func (v *VectorImage) Translate(d gg.Point) {
	v.Transform = gg.Translate(d.X, d.Y).Multiply(v.Transform)
}

func (v *VectorImage) transform(m gg.Matrix) {
	v.Transform = m.Multiply(v.Transform)
}

func (v *VectorImage) clone() *VectorImage {
	c := *v
	return &c
}

func (v *VectorImage) genImages(viewport gg.Rect, scale float64) ([]render.Image, error) {
	if v.SVG == "" || v.Size.X <= 0 || v.Size.Y <= 0 {
		return nil, ErrEmptyImage
	}
	t, ok := render.NewTarget(v.Bounds(), viewport, scale)
	if !ok {
		return nil, nil
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(v.SVG))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	sf := geom.ScaleFactors(v.Transform)
	k := t.Scale * math.Max(sf.X, sf.Y)
	w := min(render.MaxSide, max(1, int(math.Ceil(v.Size.X*k))))
	h := min(render.MaxSide, max(1, int(math.Ceil(v.Size.Y*k))))
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, src, src.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	m := v.Transform.Multiply(gg.Scale(v.Size.X/float64(w), v.Size.Y/float64(h)))
	return []render.Image{drawAffine(t, src, m)}, nil
}

// BitmapImage is an encoded raster image. Transform maps pixel coordinates
// into the document.
type BitmapImage struct {
	Data      []byte    `json:"data"`
	Size      gg.Point  `json:"size"`
	Transform gg.Matrix `json:"transform"`
}

// NewBitmapImage reads the pixel size of an encoded PNG or JPEG and places
// it at pos.
func NewBitmapImage(data []byte, pos gg.Point) (*Stroke, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrEmptyImage
	}
	return &Stroke{Kind: KindBitmap, Bitmap: &BitmapImage{
		Data:      data,
		Size:      gg.Pt(float64(cfg.Width), float64(cfg.Height)),
		Transform: gg.Translate(pos.X, pos.Y),
	}}, nil
}

func (b *BitmapImage) Bounds() gg.Rect {
	return geom.TransformRect(b.Transform, geom.RectXYWH(0, 0, b.Size.X, b.Size.Y))
}

func (b *BitmapImage) Translate(d gg.Point) {
	b.Transform = gg.Translate(d.X, d.Y).Multiply(b.Transform)
}

func (b *BitmapImage) transform(m gg.Matrix) {
	b.Transform = m.Multiply(b.Transform)
}

// clone shares Data, which is never mutated in place.
func (b *BitmapImage) clone() *BitmapImage {
	c := *b
	return &c
}

func (b *BitmapImage) genImages(viewport gg.Rect, scale float64) ([]render.Image, error) {
	if len(b.Data) == 0 {
		return nil, ErrEmptyImage
	}
	t, ok := render.NewTarget(b.Bounds(), viewport, scale)
	if !ok {
		return nil, nil
	}
	src, _, err := image.Decode(bytes.NewReader(b.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	sb := src.Bounds()
	m := b.Transform.Multiply(gg.Translate(-float64(sb.Min.X), -float64(sb.Min.Y)))
	return []render.Image{drawAffine(t, src, m)}, nil
}
