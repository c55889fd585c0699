package engine

import (
	"testing"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
	"InkBoard/internal/strokes"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraMapping(t *testing.T) {
	c := NewCamera()
	c.Offset = gg.Pt(100, 50)
	c.Zoom = 2

	assert.Equal(t, geom.RectXYWH(100, 50, 400, 300), c.Viewport())
	p := gg.Pt(37, 12)
	back := c.SurfaceToDoc(c.DocToSurface(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.Equal(t, c.DocToSurface(p), c.Transform().TransformPoint(p))
	assert.Equal(t, 2.0, c.RenderScale())
}

func TestCameraZoomAtKeepsAnchor(t *testing.T) {
	c := NewCamera()
	anchor := gg.Pt(200, 100)
	before := c.SurfaceToDoc(anchor)
	c.ZoomAt(3, anchor)
	after := c.SurfaceToDoc(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	c.ZoomAt(100, anchor)
	assert.Equal(t, MaxZoom, c.Zoom)
}

func TestCameraPan(t *testing.T) {
	c := NewCamera()
	c.Zoom = 2
	c.Pan(gg.Pt(20, -10))
	assert.Equal(t, gg.Pt(-10, 5), c.Offset)
}

func TestFlagsMerge(t *testing.T) {
	var f Flags
	assert.False(t, f.Any())
	f.Merge(Flags{Redraw: true})
	f.Merge(Flags{HistoryChanged: true})
	f.Merge(Flags{})
	assert.Equal(t, Flags{Redraw: true, HistoryChanged: true}, f)
	assert.True(t, f.Any())
}

func TestLayoutText(t *testing.T) {
	for l, name := range layoutNames {
		got, err := ParseLayout(name)
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	_, err := ParseLayout("spiral")
	assert.Error(t, err)
}

func TestResizeAutoexpand(t *testing.T) {
	store := state.NewStore()
	store.Insert(strokes.NewFreehandPath(strokes.DefaultStyle(), gg.Pt(0, 0), gg.Pt(100, 3000)))
	cam := NewCamera()

	tests := []struct {
		layout Layout
		check  func(t *testing.T, d Document)
	}{
		{LayoutFixedSize, func(t *testing.T, d Document) {
			assert.Equal(t, NewDocument().Height, d.Height, "fixed size does not autoexpand")
		}},
		{LayoutContinuousVertical, func(t *testing.T, d Document) {
			assert.Equal(t, DefaultFormat.Width, d.Width)
			assert.InDelta(t, 3001+DefaultFormat.Height, d.Height, 1e-9)
		}},
		{LayoutSemiInfinite, func(t *testing.T, d Document) {
			assert.Zero(t, d.X)
			assert.Zero(t, d.Y)
			assert.InDelta(t, 3001+2*DefaultFormat.Height, d.Height, 1e-9)
		}},
		{LayoutInfinite, func(t *testing.T, d Document) {
			assert.Less(t, d.X, 0.0)
			assert.Less(t, d.Y, 0.0)
			assert.True(t, geom.ContainsRect(d.Bounds(), cam.Viewport()))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			d := NewDocument()
			d.Layout = tt.layout
			d.ResizeAutoexpand(store, &cam)
			tt.check(t, d)
		})
	}
}

func TestResizeFixedSizeToPages(t *testing.T) {
	store := state.NewStore()
	store.Insert(strokes.NewFreehandPath(strokes.DefaultStyle(), gg.Pt(0, 0), gg.Pt(10, 1500)))
	cam := NewCamera()
	d := NewDocument()
	d.Layout = LayoutFixedSize
	d.ResizeToFitStrokes(store, &cam)
	assert.Equal(t, 2*DefaultFormat.Height, d.Height)
}
