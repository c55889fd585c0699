package state

import (
	"testing"

	"InkBoard/internal/geom"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
)

var everywhere = geom.RectXYWH(-1e6, -1e6, 2e6, 2e6)

func TestStrokesContainedInAabb(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(10, 10, 30, 30))
	s.Insert(line(50, 10, 70, 30))
	ab, _ := s.BoundsForStrokes([]Handle{a})

	assert.Equal(t, []Handle{a}, s.StrokesContainedInAabb(ab))
	assert.Empty(t, s.StrokesContainedInAabb(geom.Loosened(ab, -1)))
}

func TestStrokesContainedInPolygon(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(10, 10, 20, 20))
	s.Insert(line(100, 100, 120, 120))
	poly := []gg.Point{gg.Pt(0, 0), gg.Pt(40, 0), gg.Pt(40, 40), gg.Pt(0, 40)}
	assert.Equal(t, []Handle{a}, s.StrokesContainedInPolygon(poly))
	assert.Empty(t, s.StrokesContainedInPolygon(poly[:2]))
}

func TestStrokesIntersectingPath(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(10, 0, 10, 50))
	b := s.Insert(line(30, 0, 30, 50))
	s.Insert(line(80, 0, 80, 50))
	got := s.StrokesIntersectingPath([]gg.Point{gg.Pt(0, 25), gg.Pt(50, 25)})
	assert.Equal(t, []Handle{a, b}, got)
	assert.Empty(t, s.StrokesIntersectingPath([]gg.Point{gg.Pt(0, 25)}))
}

func TestPointQueryTopmostWins(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 20, 20))
	b := s.Insert(line(0, 20, 20, 0))
	p := gg.Pt(10, 10)

	assert.Equal(t, []Handle{a, b}, s.StrokeHitboxesContainPoint(everywhere, p))
	top, ok := s.TopmostAt(everywhere, p)
	assert.True(t, ok)
	assert.Equal(t, b, top)

	s.UpdateChronoToLast([]Handle{a})
	top, _ = s.TopmostAt(everywhere, p)
	assert.Equal(t, a, top)

	_, ok = s.TopmostAt(geom.RectXYWH(100, 100, 10, 10), p)
	assert.False(t, ok)
}

func TestQueriesSkipTrashed(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	s.SetTrashed([]Handle{a}, true)
	assert.Empty(t, s.KeysIntersecting(everywhere))
	assert.Empty(t, s.StrokesContainedInAabb(everywhere))
	assert.Empty(t, s.StrokeHitboxesContainPoint(everywhere, gg.Pt(5, 5)))
}

func TestTrashCollidingStrokes(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 0))
	b := s.Insert(line(0, 50, 10, 50))
	got := s.TrashCollidingStrokes(geom.RectXYWH(4, -2, 2, 4), everywhere)
	assert.Equal(t, []Handle{a}, got)
	assert.True(t, s.Trashed(a))
	assert.False(t, s.Trashed(b))
}

func TestKeysIntersecting(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	s.Insert(line(100, 100, 110, 110))
	assert.Equal(t, []Handle{a}, s.KeysIntersecting(geom.RectXYWH(5, 5, 20, 20)))
}
