package board

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"InkBoard/internal/config"
	"InkBoard/internal/engine"
	"InkBoard/internal/pens"
	"InkBoard/internal/state"
	"InkBoard/internal/strokes"

	"fyne.io/fyne/v2"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T) *Board {
	t.Helper()
	b := New(config.Default())
	t.Cleanup(b.Close)
	return b
}

func addRect(b *Board, x, y float64) state.Handle {
	var h state.Handle
	b.Update(func(v *engine.View, _ *pens.Holder) engine.Flags {
		h = v.Store.Insert(strokes.NewShape(strokes.ShapeRectangle, gg.Pt(x, y), gg.Pt(x+50, y+50), strokes.DefaultStyle()))
		return v.Record()
	})
	return h
}

func strokeCount(b *Board) int {
	n := 0
	b.Read(func(v *engine.View, _ *pens.Holder) {
		n = len(v.Store.UntrashedKeys())
	})
	return n
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := newBoard(t)
	addRect(b, 0, 0)
	b.Paste("hello", nil)
	require.Equal(t, 2, strokeCount(b))

	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))

	other := newBoard(t)
	addRect(other, 300, 300)
	require.NoError(t, other.Load(&buf))
	assert.Equal(t, b.ID(), other.ID())
	assert.Equal(t, 2, strokeCount(other))
	assert.False(t, other.CanUndo(), "history starts over")
}

func TestLoadRejectsGarbage(t *testing.T) {
	b := newBoard(t)
	addRect(b, 0, 0)
	assert.Error(t, b.Load(bytes.NewBufferString("not json")))
	assert.Equal(t, 1, strokeCount(b))
}

func TestUndoCancelsTypewriterAndSelects(t *testing.T) {
	b := newBoard(t)
	a := addRect(b, 0, 0)
	addRect(b, 100, 0)
	b.ChangePenStyle(pens.StyleTypewriter)
	b.Update(func(v *engine.View, _ *pens.Holder) engine.Flags {
		v.Store.SetSelected([]state.Handle{a}, true)
		return engine.Flags{}
	})

	flags := b.Undo()
	assert.True(t, flags.HistoryChanged)
	assert.Equal(t, pens.StyleSelector, b.PenStyle())
	assert.Equal(t, 1, strokeCount(b))
	f := b.Frame()
	assert.True(t, f.HasSelection)

	b.Redo()
	assert.Equal(t, 2, strokeCount(b))
}

func TestUndoWithoutHistory(t *testing.T) {
	b := newBoard(t)
	flags := b.Undo()
	assert.False(t, flags.HistoryChanged)
	assert.False(t, b.CanRedo())
}

func TestClearIsUndoable(t *testing.T) {
	b := newBoard(t)
	addRect(b, 0, 0)
	addRect(b, 100, 100)
	b.Clear()
	assert.Zero(t, strokeCount(b))
	b.Undo()
	assert.Equal(t, 2, strokeCount(b))
}

func TestSelectorEventsThroughBoard(t *testing.T) {
	b := newBoard(t)
	addRect(b, 0, 0)
	flags := b.HandleEvent(pens.Key("A", fyne.KeyModifierControl))
	assert.True(t, flags.SelectionChanged)

	f := b.Frame()
	require.True(t, f.HasSelection)
	assert.Equal(t, gg.Pt(-1, -1), f.Selection.Min)
	assert.Empty(t, f.SelectorPath)
}

func TestClipboardThroughBoard(t *testing.T) {
	b := newBoard(t)
	b.Paste("hello world", nil)
	_, ok := b.Copy()
	assert.False(t, ok)

	b.HandleEvent(pens.Key("A", fyne.KeyModifierControl))
	text, ok := b.Copy()
	require.True(t, ok)
	assert.Equal(t, "hello world", text)

	cut, flags := b.Cut()
	assert.Equal(t, "hello world", cut)
	assert.True(t, flags.ContentChanged)

	f := b.Frame()
	assert.True(t, f.Editing)
	assert.Empty(t, f.TextSelection)
}

func TestZoomKeepsAnchor(t *testing.T) {
	b := newBoard(t)
	anchor := gg.Pt(400, 300)
	before := b.Camera()
	docBefore := before.SurfaceToDoc(anchor)
	b.ZoomAt(2, anchor)
	after := b.Camera()
	assert.Equal(t, 2.0, after.Zoom)
	docAfter := after.SurfaceToDoc(anchor)
	assert.InDelta(t, docBefore.X, docAfter.X, 1e-9)
	assert.InDelta(t, docBefore.Y, docAfter.Y, 1e-9)
}

func TestRunAppliesRenderResultsAndStops(t *testing.T) {
	b := New(config.Default())
	var redraws atomic.Int32
	b.OnFlags = func(f engine.Flags) {
		if f.Redraw {
			redraws.Add(1)
		}
	}
	done := make(chan error, 1)
	go func() { done <- b.Run(context.Background()) }()

	addRect(b, 10, 10)
	b.Resize(gg.Pt(640, 480))
	require.Eventually(t, func() bool {
		ready := false
		b.Read(func(v *engine.View, _ *pens.Holder) {
			for _, k := range v.Store.Keys() {
				r, _ := v.Store.RenderComp(k)
				ready = r.State == state.RenderReady
			}
		})
		return ready
	}, 5*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, b.Frame().Images)

	b.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Positive(t, redraws.Load())
}

func TestRunStopsWithContext(t *testing.T) {
	b := newBoard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Run(ctx), context.Canceled)
}
