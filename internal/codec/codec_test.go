package codec

import (
	"bytes"
	"strings"
	"testing"

	"InkBoard/internal/engine"
	"InkBoard/internal/state"
	"InkBoard/internal/strokes"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadDropsTrash(t *testing.T) {
	s := state.NewStore()
	a := s.Insert(strokes.NewFreehandPath(strokes.DefaultStyle(), gg.Pt(0, 0), gg.Pt(10, 10)))
	b := s.Insert(strokes.NewRichText("hello", gg.Pt(5, 5), strokes.DefaultTextStyle()))
	c := s.Insert(strokes.NewShape(strokes.ShapeEllipse, gg.Pt(0, 0), gg.Pt(4, 4), strokes.DefaultStyle()))
	s.SetTrashed([]state.Handle{c}, true)
	s.UpdateChronoToLast([]state.Handle{a})

	doc := engine.NewDocument()
	doc.Layout = engine.LayoutContinuousVertical
	id := uuid.New()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, New(id, doc, s.TakeSnapshot())))
	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, Version, got.Version)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, doc, got.Document)
	require.Len(t, got.Strokes, 2)

	loaded := state.NewStore()
	keys := loaded.ImportSnapshot(got.Snapshot())
	require.Len(t, keys, 2)
	ordered := loaded.KeysAsRendered()
	first, _ := loaded.Get(ordered[0])
	last, _ := loaded.Get(ordered[1])
	assert.Equal(t, strokes.KindText, first.Kind, "chronology survives")
	assert.Equal(t, strokes.KindFreehand, last.Kind)

	want, _ := s.Get(b)
	assert.Equal(t, want.Text.Text, first.Text.Text)
	assert.Equal(t, s.ChronoCounter(), loaded.ChronoCounter())
}

func TestDecodeDefaults(t *testing.T) {
	got, err := Decode(strings.NewReader(`{"strokes": []}`))
	require.NoError(t, err)
	assert.Equal(t, Version, got.Version)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, engine.NewDocument(), got.Document)
}

func TestDecodeRejectsNewerVersion(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"version": 99}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"strokes": [{"stroke": {"kind": "hologram"}}]}`))
	assert.Error(t, err)
}

func TestSnapshotSkipsNilStrokes(t *testing.T) {
	d := Document{Strokes: []Entry{{Chrono: 1}, {Chrono: 2, Stroke: strokes.NewFreehandPath(strokes.DefaultStyle(), gg.Pt(0, 0))}}}
	assert.Len(t, d.Snapshot().Strokes, 1)
}
