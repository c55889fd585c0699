package render

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"InkBoard/internal/geom"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTargetClipsToViewport(t *testing.T) {
	target, ok := NewTarget(geom.RectXYWH(50, 50, 100, 100), geom.RectXYWH(0, 0, 100, 100), 2)
	require.True(t, ok)
	assert.Equal(t, gg.Pt(49, 49), target.Area.Min)
	assert.Equal(t, gg.Pt(100, 100), target.Area.Max)
	assert.Equal(t, 102, target.W)
	assert.Equal(t, 102, target.H)
}

func TestNewTargetOutsideViewport(t *testing.T) {
	_, ok := NewTarget(geom.RectXYWH(500, 500, 10, 10), geom.RectXYWH(0, 0, 100, 100), 1)
	assert.False(t, ok)
	_, ok = NewTarget(geom.RectXYWH(0, 0, 10, 10), geom.RectXYWH(0, 0, 100, 100), 0)
	assert.False(t, ok)
}

func TestNewTargetCapsSize(t *testing.T) {
	target, ok := NewTarget(geom.RectXYWH(0, 0, 10000, 10), geom.RectXYWH(-1, -1, 20000, 20000), 1)
	require.True(t, ok)
	assert.LessOrEqual(t, target.W, MaxSide)
	assert.Less(t, target.Scale, 1.0)
}

func TestDocToPixel(t *testing.T) {
	target := Target{Area: geom.RectXYWH(10, 20, 5, 5), Scale: 2}
	p := target.DocToPixel().TransformPoint(gg.Pt(11, 21))
	assert.Equal(t, gg.Pt(2, 2), p)
}

func TestImageTranslated(t *testing.T) {
	px := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img := Image{Bounds: geom.RectXYWH(0, 0, 1, 1), Pixels: px}
	moved := img.Translated(gg.Pt(3, 4))
	assert.Equal(t, gg.Pt(3, 4), moved.Bounds.Min)
	assert.Same(t, px, moved.Pixels)
	assert.Equal(t, gg.Pt(0, 0), img.Bounds.Min)
}

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(2)
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.True(t, p.Go(func(context.Context) { n.Add(1) }))
	}
	p.Wait()
	assert.Equal(t, int32(10), n.Load())
	p.Close()
	assert.False(t, p.Go(func(context.Context) { n.Add(1) }))
}

func TestPoolQueuedJobSeesCancellation(t *testing.T) {
	p := NewPool(1)
	started, release := make(chan struct{}), make(chan struct{})
	require.True(t, p.Go(func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	got := make(chan error, 1)
	require.True(t, p.Go(func(ctx context.Context) { got <- ctx.Err() }))
	p.cancel()
	assert.ErrorIs(t, <-got, context.Canceled)

	close(release)
	p.Wait()
}

func TestCompose(t *testing.T) {
	red := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range red.Pix {
		red.Pix[i] = 0xff
		if i%4 == 1 || i%4 == 2 {
			red.Pix[i] = 0
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, 40, 40))
	area := geom.RectXYWH(100, 100, 20, 20)
	Compose(dst, area, 2, []Image{
		{Bounds: geom.RectXYWH(105, 105, 5, 5), Pixels: red},
		{Bounds: geom.RectXYWH(500, 500, 5, 5), Pixels: red},
	})

	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, dst.RGBAAt(12, 12))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(25, 25))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5))
}
