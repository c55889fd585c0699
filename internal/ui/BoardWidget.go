package ui

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"InkBoard/internal/board"
	"InkBoard/internal/engine"
	"InkBoard/internal/export"
	"InkBoard/internal/logging"
	"InkBoard/internal/pens"
	"InkBoard/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"
)

const (
	zoomStep    = 1.1
	scrollNotch = 10.0
)

// BoardWidget hosts a board: it feeds pointer and keyboard input to the
// pens and paints the cached stroke images.
type BoardWidget struct {
	widget.BaseWidget
	board *board.Board

	// ReadOnly boards can be panned and zoomed but not edited.
	ReadOnly bool

	mods    fyne.KeyModifier
	pressed bool
	panning bool
	lastPan fyne.Position

	statusBar *widget.Label

	// OnContentChanged runs on the fyne goroutine after an edit.
	OnContentChanged func()
	// OnRefreshUI runs when pen settings or history availability change.
	OnRefreshUI func()
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ fyne.Focusable    = (*BoardWidget)(nil)
	_ fyne.Shortcutable = (*BoardWidget)(nil)
	_ fyne.Scrollable   = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
	_ desktop.Hoverable = (*BoardWidget)(nil)
	_ desktop.Keyable   = (*BoardWidget)(nil)
)

// NewBoardWidget takes over b.OnFlags; set it before b.Run starts.
func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{
		board:     b,
		statusBar: widget.NewLabel("Ready"),
	}
	w.ExtendBaseWidget(w)
	b.OnFlags = func(f engine.Flags) {
		fyne.Do(func() { w.apply(f) })
	}
	return w
}

func (w *BoardWidget) Board() *board.Board { return w.board }

func (w *BoardWidget) StatusBar() *widget.Label { return w.statusBar }

func (w *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { w.statusBar.SetText(text) })
}

func (w *BoardWidget) apply(f engine.Flags) {
	if f.Redraw || f.Resize || f.ContentChanged || f.SelectionChanged {
		w.Refresh()
	}
	if f.ContentChanged && w.OnContentChanged != nil {
		w.OnContentChanged()
	}
	if (f.RefreshUI || f.HistoryChanged) && w.OnRefreshUI != nil {
		w.OnRefreshUI()
	}
}

func (w *BoardWidget) handle(ev pens.Event) {
	if w.ReadOnly {
		return
	}
	w.board.HandleEvent(ev)
}

func (w *BoardWidget) toDoc(p fyne.Position) gg.Point {
	cam := w.board.Camera()
	return cam.SurfaceToDoc(gg.Pt(float64(p.X), float64(p.Y)))
}

func (w *BoardWidget) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(w); c != nil {
		c.Focus(w)
	}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	w.focus()
	w.mods = e.Modifier
	if e.Button != desktop.MouseButtonPrimary {
		w.panning = true
		w.lastPan = e.Position
		return
	}
	w.pressed = true
	w.handle(pens.Down(w.toDoc(e.Position), e.Modifier))
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		w.panning = false
		return
	}
	if !w.pressed {
		return
	}
	w.pressed = false
	w.handle(pens.Up(w.toDoc(e.Position), e.Modifier))
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	switch {
	case w.pressed:
		w.handle(pens.Down(w.toDoc(e.Position), w.mods))
	case w.panning:
		w.panTo(e.Position)
	}
}

func (w *BoardWidget) DragEnd() {}

func (w *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	w.MouseMoved(e)
}

func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if w.panning {
		w.panTo(e.Position)
		return
	}
	if !w.pressed {
		w.handle(pens.Proximity(w.toDoc(e.Position), e.Modifier))
	}
}

func (w *BoardWidget) MouseOut() {}

func (w *BoardWidget) panTo(p fyne.Position) {
	d := p.Subtract(w.lastPan)
	w.lastPan = p
	if d.X != 0 || d.Y != 0 {
		w.board.Pan(gg.Pt(float64(d.X), float64(d.Y)))
	}
}

// Scrolled pans, or zooms around the pointer with Ctrl held.
func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if w.mods&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0 {
		cam := w.board.Camera()
		factor := math.Pow(zoomStep, float64(e.Scrolled.DY)/scrollNotch)
		w.board.ZoomAt(cam.Zoom*factor, gg.Pt(float64(e.Position.X), float64(e.Position.Y)))
		return
	}
	w.board.Pan(gg.Pt(float64(e.Scrolled.DX), float64(e.Scrolled.DY)))
}

func (w *BoardWidget) FocusGained() {}

func (w *BoardWidget) FocusLost() {
	w.mods = 0
}

func modifierFor(name fyne.KeyName) fyne.KeyModifier {
	switch name {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return fyne.KeyModifierShift
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return fyne.KeyModifierControl
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return fyne.KeyModifierAlt
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return fyne.KeyModifierSuper
	}
	return 0
}

func (w *BoardWidget) KeyDown(e *fyne.KeyEvent) {
	w.mods |= modifierFor(e.Name)
}

func (w *BoardWidget) KeyUp(e *fyne.KeyEvent) {
	w.mods &^= modifierFor(e.Name)
}

func (w *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	w.handle(pens.Key(e.Name, w.mods))
}

func (w *BoardWidget) TypedRune(r rune) {
	w.handle(pens.Rune(r, w.mods))
}

func (w *BoardWidget) TypedShortcut(s fyne.Shortcut) {
	switch s := s.(type) {
	case *fyne.ShortcutCopy:
		if text, ok := w.board.Copy(); ok {
			fyne.CurrentApp().Clipboard().SetContent(text)
		}
	case *fyne.ShortcutCut:
		if w.ReadOnly {
			return
		}
		if text, _ := w.board.Cut(); text != "" {
			fyne.CurrentApp().Clipboard().SetContent(text)
		}
	case *fyne.ShortcutPaste:
		if w.ReadOnly {
			return
		}
		if text := fyne.CurrentApp().Clipboard().Content(); text != "" {
			w.board.Paste(text, nil)
		}
	case *fyne.ShortcutSelectAll:
		w.handle(pens.Key(fyne.KeyA, fyne.KeyModifierControl))
	case *fyne.ShortcutUndo:
		w.Undo()
	case *fyne.ShortcutRedo:
		w.Redo()
	case *desktop.CustomShortcut:
		w.customShortcut(s)
	}
}

func (w *BoardWidget) customShortcut(s *desktop.CustomShortcut) {
	ctrl := s.Modifier&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0
	switch {
	case ctrl && s.KeyName == fyne.KeyZ && s.Modifier&fyne.KeyModifierShift != 0:
		w.Redo()
	case ctrl && s.KeyName == fyne.KeyZ:
		w.Undo()
	case ctrl && s.KeyName == fyne.KeyY:
		w.Redo()
	default:
		w.handle(pens.Key(s.KeyName, s.Modifier))
	}
}

func (w *BoardWidget) Undo() {
	if !w.ReadOnly {
		w.board.Undo()
	}
}

func (w *BoardWidget) Redo() {
	if !w.ReadOnly {
		w.board.Redo()
	}
}

func (w *BoardWidget) ChangePenStyle(style pens.Style) {
	if w.ReadOnly {
		return
	}
	w.board.ChangePenStyle(style)
	w.focus()
}

// Clear trashes every stroke as one undoable step.
func (w *BoardWidget) Clear() {
	if !w.ReadOnly {
		w.board.Clear()
	}
}

func (w *BoardWidget) SaveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			logging.Logger().Warn("close save file", "err", err)
		}
	}()
	if err := w.board.Save(writer); err != nil {
		logging.Logger().Error("save failed", "uri", writer.URI().String(), "err", err)
		w.SetStatus("Error saving file")
		return
	}
	w.SetStatus("Saved " + writer.URI().Name())
}

func (w *BoardWidget) LoadFromFile(reader fyne.URIReadCloser) {
	defer func() {
		if err := reader.Close(); err != nil {
			logging.Logger().Warn("close opened file", "err", err)
		}
	}()
	if err := w.board.Load(reader); err != nil {
		logging.Logger().Error("load failed", "uri", reader.URI().String(), "err", err)
		w.SetStatus("Error reading file - invalid format")
		return
	}
	w.SetStatus("Loaded " + reader.URI().Name())
}

func (w *BoardWidget) ExportPDF(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			logging.Logger().Warn("close pdf file", "err", err)
		}
	}()
	d := w.board.Encoded()
	if err := export.PDF(writer, d.Document, d.Snapshot(), export.DefaultOptions()); err != nil {
		logging.Logger().Error("pdf export failed", "err", err)
		w.SetStatus("Error exporting PDF")
		return
	}
	w.SetStatus(fmt.Sprintf("Exported %d strokes to %s", len(d.Strokes), writer.URI().Name()))
}

// paint draws the visible strokes at the raster size.
func (w *BoardWidget) paint(px, py int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, px, py))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	f := w.board.Frame()
	area := f.Camera.Viewport()
	if area.Width() <= 0 {
		return dst
	}
	scale := float64(px) / area.Width()
	render.Compose(dst, area, scale, f.Images)
	render.Compose(dst, area, scale, f.Selected)
	return dst
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: w}
	r.raster = canvas.NewRaster(w.paint)
	r.overlays = r.buildOverlays()
	return r
}

type boardWidgetRenderer struct {
	board    *BoardWidget
	raster   *canvas.Raster
	overlays []fyne.CanvasObject
}

func (r *boardWidgetRenderer) buildOverlays() []fyne.CanvasObject {
	doc := r.board.board.Document()
	return overlayObjects(r.board.board.Frame(), doc.Layout != engine.LayoutInfinite)
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return append([]fyne.CanvasObject{r.raster}, r.overlays...)
}

func (r *boardWidgetRenderer) Refresh() {
	r.overlays = r.buildOverlays()
	r.raster.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
	r.board.board.Resize(gg.Pt(float64(size.Width), float64(size.Height)))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
