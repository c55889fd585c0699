package ui

import (
	"image/color"
	"testing"

	"InkBoard/internal/board"
	"InkBoard/internal/config"
	"InkBoard/internal/engine"
	"InkBoard/internal/geom"
	"InkBoard/internal/pens"
	"InkBoard/internal/strokes"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWidget(t *testing.T) *BoardWidget {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	b := board.New(config.Default())
	t.Cleanup(b.Close)
	w := NewBoardWidget(b)
	win := test.NewWindow(w)
	t.Cleanup(win.Close)
	return w
}

func texts(b *board.Board) []string {
	var out []string
	b.Read(func(v *engine.View, _ *pens.Holder) {
		for _, k := range v.Store.UntrashedKeys() {
			if st, ok := v.Store.Get(k); ok && st.Kind == strokes.KindText {
				out = append(out, st.Text.Text)
			}
		}
	})
	return out
}

func click(w *BoardWidget, x, y float32) {
	ev := &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
	w.MouseDown(ev)
	w.MouseUp(ev)
}

func TestTypingCreatesText(t *testing.T) {
	w := newWidget(t)
	w.ChangePenStyle(pens.StyleTypewriter)
	click(w, 40, 40)
	w.TypedRune('h')
	w.TypedRune('i')
	assert.Equal(t, []string{"hi"}, texts(w.Board()))

	w.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})
	assert.Equal(t, []string{"h"}, texts(w.Board()))
}

func TestReadOnlyIgnoresInput(t *testing.T) {
	w := newWidget(t)
	w.ReadOnly = true
	w.ChangePenStyle(pens.StyleTypewriter)
	click(w, 40, 40)
	w.TypedRune('x')
	assert.Empty(t, texts(w.Board()))
	assert.Equal(t, pens.StyleSelector, w.Board().PenStyle())
}

func TestUndoShortcut(t *testing.T) {
	w := newWidget(t)
	w.Board().Paste("note", nil)
	require.Len(t, texts(w.Board()), 1)

	w.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl})
	assert.Empty(t, texts(w.Board()))
	w.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl})
	assert.Len(t, texts(w.Board()), 1)
}

func TestSelectAllShortcutSelects(t *testing.T) {
	w := newWidget(t)
	w.Board().Update(func(v *engine.View, _ *pens.Holder) engine.Flags {
		v.Store.Insert(strokes.NewShape(strokes.ShapeRectangle, gg.Pt(10, 10), gg.Pt(60, 60), strokes.DefaultStyle()))
		return v.Record()
	})
	w.TypedShortcut(&fyne.ShortcutSelectAll{})
	assert.True(t, w.Board().Frame().HasSelection)
}

func TestScrollPansAndZooms(t *testing.T) {
	w := newWidget(t)
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -50}})
	assert.InDelta(t, 50, w.Board().Camera().Offset.Y, 1e-6)

	w.KeyDown(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: scrollNotch}})
	assert.InDelta(t, zoomStep, w.Board().Camera().Zoom, 1e-6)

	w.KeyUp(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: scrollNotch}})
	assert.InDelta(t, zoomStep, w.Board().Camera().Zoom, 1e-6)
}

func TestSecondaryDragPans(t *testing.T) {
	w := newWidget(t)
	w.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 100)}, Button: desktop.MouseButtonSecondary})
	w.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(80, 70)}})
	w.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(80, 70)}, Button: desktop.MouseButtonSecondary})
	assert.Equal(t, gg.Pt(20, 30), w.Board().Camera().Offset)
}

func TestOverlayObjects(t *testing.T) {
	cam := engine.NewCamera()
	cam.Zoom = 2
	f := board.Frame{
		Camera:       cam,
		Document:     geom.RectXYWH(0, 0, 100, 100),
		SelectorPath: []gg.Point{gg.Pt(0, 0), gg.Pt(10, 0), gg.Pt(10, 10)},
		HasSelection: true,
		Selection:    geom.RectXYWH(5, 5, 10, 20),
	}
	objs := overlayObjects(f, true)
	// page + 2 path segments + selection + 4 corners (fill and outline) + rotate
	require.Len(t, objs, 1+2+1+8+1)

	page := objs[0].(*canvas.Rectangle)
	assert.Equal(t, fyne.NewSize(200, 200), page.Size())
	sel := objs[3].(*canvas.Rectangle)
	assert.Equal(t, fyne.NewPos(10, 10), sel.Position())
	assert.Equal(t, fyne.NewSize(20, 40), sel.Size())

	assert.Empty(t, overlayObjects(board.Frame{Camera: cam}, false))
}

func TestStrokeColor(t *testing.T) {
	assert.Equal(t, strokes.Color{R: 1, A: 1}, strokeColor(color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, strokes.Black, strokeColor(color.Black))
}
