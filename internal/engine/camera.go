package engine

import (
	"github.com/gogpu/gg"
)

const (
	MinZoom = 0.1
	MaxZoom = 8.0
)

// Camera maps document coordinates onto the host surface. Offset is the
// document position of the top left surface corner, Size is the surface
// size in pixels.
type Camera struct {
	Offset gg.Point
	Zoom   float64
	Size   gg.Point
	// ImageScale multiplies the render resolution, e.g. for hi-dpi
	// surfaces.
	ImageScale float64
}

func NewCamera() Camera {
	return Camera{Zoom: 1, Size: gg.Pt(800, 600), ImageScale: 1}
}

// TotalZoom returns the surface pixels per document unit.
func (c *Camera) TotalZoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// RenderScale is the scale stroke images are generated at.
func (c *Camera) RenderScale() float64 {
	s := c.ImageScale
	if s <= 0 {
		s = 1
	}
	return c.TotalZoom() * s
}

// Viewport returns the visible document area.
func (c *Camera) Viewport() gg.Rect {
	return gg.Rect{Min: c.Offset, Max: c.Offset.Add(c.Size.Div(c.TotalZoom()))}
}

// Transform maps document to surface coordinates.
func (c *Camera) Transform() gg.Matrix {
	z := c.TotalZoom()
	return gg.Scale(z, z).Multiply(gg.Translate(-c.Offset.X, -c.Offset.Y))
}

func (c *Camera) SurfaceToDoc(p gg.Point) gg.Point {
	return c.Offset.Add(p.Div(c.TotalZoom()))
}

func (c *Camera) DocToSurface(p gg.Point) gg.Point {
	return p.Sub(c.Offset).Mul(c.TotalZoom())
}

// Pan moves the view by a surface distance.
func (c *Camera) Pan(delta gg.Point) {
	c.Offset = c.Offset.Sub(delta.Div(c.TotalZoom()))
}

// ZoomAt changes the zoom keeping the document point under the surface
// position anchor in place.
func (c *Camera) ZoomAt(zoom float64, anchor gg.Point) {
	zoom = min(max(zoom, MinZoom), MaxZoom)
	doc := c.SurfaceToDoc(anchor)
	c.Zoom = zoom
	c.Offset = doc.Sub(anchor.Div(zoom))
}
