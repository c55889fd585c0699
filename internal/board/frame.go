package board

import (
	"InkBoard/internal/engine"
	"InkBoard/internal/geom"
	"InkBoard/internal/pens"
	"InkBoard/internal/render"
	"InkBoard/internal/state"

	"github.com/gogpu/gg"
)

// Frame is what a host paints, in document coordinates. Images are bottom
// to top; selected strokes come last.
type Frame struct {
	Camera   engine.Camera
	Document gg.Rect
	Images   []render.Image
	Selected []render.Image

	SelectorPath []gg.Point
	Selection    gg.Rect
	Handles      pens.Handles
	HasSelection bool

	TextBounds    gg.Rect
	Caret         gg.Rect
	TextSelection []gg.Rect
	Editing       bool
}

// Frame collects the cached images inside the viewport and the overlays
// of the current pen.
func (b *Board) Frame() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.view()
	f := Frame{Camera: b.camera, Document: b.doc.Bounds()}
	viewport := b.camera.Viewport()

	f.Images = b.images(b.store.KeysAsRendered(), viewport)
	f.Selected = b.images(b.store.SelectionKeysAsRendered(), viewport)

	switch b.holder.CurrentStyle() {
	case pens.StyleSelector:
		sel := b.holder.Selector
		f.SelectorPath = append(f.SelectorPath, sel.Path()...)
		if r, ok := sel.SelectionBounds(); ok {
			f.Selection = r
			f.Handles, _ = sel.Handles(&b.camera)
			f.HasSelection = true
		}
	case pens.StyleTypewriter:
		tw := b.holder.Typewriter
		if r, ok := tw.BoundsOnDoc(v); ok {
			f.TextBounds = r
		}
		if key, cursor, ok := tw.Editing(); ok {
			if st, ok := b.store.Get(key); ok {
				f.Editing = true
				f.Caret = st.Text.CursorRect(cursor)
				if from, to, ok := tw.SelectionRange(); ok {
					f.TextSelection = st.Text.SelectionRects(from, to)
				}
			}
		}
	}
	return f
}

func (b *Board) images(keys []state.Handle, viewport gg.Rect) []render.Image {
	var out []render.Image
	for _, k := range keys {
		r, ok := b.store.RenderComp(k)
		if !ok {
			continue
		}
		for _, img := range r.Images {
			if geom.Intersects(img.Bounds, viewport) {
				out = append(out, img)
			}
		}
	}
	return out
}
