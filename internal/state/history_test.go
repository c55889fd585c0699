package state

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashThenUndoScenario(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	b := s.Insert(line(20, 20, 30, 30))
	require.True(t, s.Record())
	assert.Equal(t, uint32(1), s.chrono[a].T)
	assert.Equal(t, uint32(2), s.chrono[b].T)

	s.SetTrashed([]Handle{a}, true)
	require.True(t, s.Record())
	assert.Equal(t, []Handle{b}, s.KeysAsRendered())

	require.True(t, s.Undo())
	assert.False(t, s.Trashed(a))
	assert.Equal(t, []Handle{a, b}, s.KeysAsRendered())

	require.True(t, s.Redo())
	assert.Equal(t, []Handle{b}, s.KeysAsRendered())
}

func TestUndoRedoSymmetry(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	b := s.Insert(line(5, 0, 5, 10))
	s.Record()
	initial := dump(s)

	ops := []func(){
		func() { s.TranslateStrokes([]Handle{a}, gg.Pt(3, 4)) },
		func() { s.Insert(line(1, 1, 2, 2)) },
		func() {
			s.RotateStrokes([]Handle{a, b}, 0.7, gg.Pt(0, 0))
			s.UpdateChronoToLast([]Handle{a})
		},
		func() { s.SetTrashed([]Handle{b}, true) },
		func() { s.ScaleStrokesWithPivot([]Handle{a}, gg.Pt(2, 0.5), gg.Pt(1, 1)) },
		func() { s.Remove(a) },
	}
	for _, op := range ops {
		op()
		require.True(t, s.Record())
	}
	final := dump(s)

	for range ops {
		require.True(t, s.Undo())
	}
	assert.Equal(t, initial, dump(s))
	require.NoError(t, s.verify())

	// the seeded empty entry is still below
	require.True(t, s.CanUndo())
	require.True(t, s.Undo())
	assert.Zero(t, s.Len())
	assert.False(t, s.CanUndo())
	require.True(t, s.Redo())
	assert.Equal(t, initial, dump(s))

	for range ops {
		require.True(t, s.Redo())
	}
	assert.False(t, s.CanRedo())
	assert.Equal(t, final, dump(s))
	require.NoError(t, s.verify())
}

func TestRecordSkipsUnchangedState(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Record())
	s.Insert(line(0, 0, 1, 1))
	assert.True(t, s.Record())
	assert.False(t, s.Record())

	h, _ := s.LastStrokeKey()
	s.SetSelected([]Handle{h}, true)
	assert.False(t, s.Record(), "selection is not part of history")
}

func TestRecordDropsRedo(t *testing.T) {
	s := NewStore()
	s.Insert(line(0, 0, 1, 1))
	s.Record()
	s.Insert(line(0, 0, 2, 2))
	s.Record()
	s.Undo()
	assert.True(t, s.CanRedo())
	s.Insert(line(0, 0, 3, 3))
	s.Record()
	assert.False(t, s.CanRedo())
	assert.Equal(t, 2, s.Len())
}

func TestHistoryIsBounded(t *testing.T) {
	s := NewStore()
	s.SetHistoryMaxLen(5)
	for i := 0; i < 20; i++ {
		s.Insert(line(0, 0, float64(i), 1))
		s.Record()
	}
	assert.Len(t, s.history.entries, 5)
	undos := 0
	for s.Undo() {
		undos++
	}
	assert.Equal(t, 4, undos)
	assert.Equal(t, 16, s.Len())
}

func TestUpdateLatestHistoryEntryCoalesces(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 1, 1))
	s.Record()
	s.TranslateStrokes([]Handle{a}, gg.Pt(1, 0))
	s.Record()
	s.TranslateStrokes([]Handle{a}, gg.Pt(1, 0))
	s.UpdateLatestHistoryEntry()
	s.TranslateStrokes([]Handle{a}, gg.Pt(1, 0))
	s.UpdateLatestHistoryEntry()

	st, _ := s.Get(a)
	assert.InDelta(t, 2, st.Bounds().Min.X, 1e-9)
	require.True(t, s.Undo())
	st, _ = s.Get(a)
	assert.InDelta(t, -1, st.Bounds().Min.X, 1e-9)
}

func TestUpdateLatestOnFirstEntryKeepsInitialState(t *testing.T) {
	s := NewStore()
	s.Insert(line(0, 0, 1, 1))
	s.UpdateLatestHistoryEntry()
	require.True(t, s.CanUndo())
	s.Undo()
	assert.Zero(t, s.Len())
}

func TestUndoSelectionFollowsSurvivingStrokes(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 1, 1))
	s.Record()
	b := s.Insert(line(0, 0, 2, 2))
	s.SetSelected([]Handle{a, b}, true)
	s.Record()

	s.Undo()
	assert.True(t, s.Selected(a))
	assert.False(t, s.Contains(b))
	assert.Equal(t, []Handle{a}, s.SelectionKeys())

	s.Redo()
	assert.False(t, s.Selected(b), "strokes coming back are not selected")
}

func TestUndoKeepsImagesButMarksDirty(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	s.Record()
	require.NoError(t, s.RegenerateRenderingForStroke(a, gg.Rect{Min: gg.Pt(-20, -20), Max: gg.Pt(20, 20)}, 1))
	s.TranslateStrokes([]Handle{a}, gg.Pt(1, 1))
	s.Record()

	s.Undo()
	r, ok := s.RenderComp(a)
	require.True(t, ok)
	assert.NotEmpty(t, r.Images)
	assert.Equal(t, RenderDirty, r.State)
}
