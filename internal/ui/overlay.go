package ui

import (
	"image/color"

	"InkBoard/internal/board"
	"InkBoard/internal/engine"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/gogpu/gg"
)

var (
	selectionColor = color.NRGBA{R: 0x1a, G: 0x73, B: 0xe8, A: 0xff}
	selectionFill  = color.NRGBA{R: 0x1a, G: 0x73, B: 0xe8, A: 0x40}
	handleFill     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	caretColor     = color.NRGBA{A: 0xff}
	pageColor      = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
)

func toPos(p gg.Point) fyne.Position {
	return fyne.NewPos(float32(p.X), float32(p.Y))
}

// surfaceRect places obj over the document rectangle r.
func surfaceRect(cam engine.Camera, r gg.Rect, obj fyne.CanvasObject) fyne.CanvasObject {
	lo := cam.DocToSurface(r.Min)
	hi := cam.DocToSurface(r.Max)
	obj.Move(toPos(lo))
	obj.Resize(fyne.NewSize(float32(hi.X-lo.X), float32(hi.Y-lo.Y)))
	return obj
}

func outline(c color.Color, width float32) *canvas.Rectangle {
	r := canvas.NewRectangle(color.Transparent)
	r.StrokeColor = c
	r.StrokeWidth = width
	return r
}

func filled(c color.Color) *canvas.Rectangle {
	return canvas.NewRectangle(c)
}

// overlayObjects draws the document border and the state of the current
// pen on top of the rendered strokes.
func overlayObjects(f board.Frame, showPage bool) []fyne.CanvasObject {
	cam := f.Camera
	var objs []fyne.CanvasObject
	if showPage {
		objs = append(objs, surfaceRect(cam, f.Document, outline(pageColor, 1)))
	}

	for i := 1; i < len(f.SelectorPath); i++ {
		l := canvas.NewLine(selectionColor)
		l.StrokeWidth = 1
		l.Position1 = toPos(cam.DocToSurface(f.SelectorPath[i-1]))
		l.Position2 = toPos(cam.DocToSurface(f.SelectorPath[i]))
		objs = append(objs, l)
	}

	if f.HasSelection {
		objs = append(objs, surfaceRect(cam, f.Selection, outline(selectionColor, 1)))
		for _, r := range f.Handles.Resize {
			objs = append(objs,
				surfaceRect(cam, r, filled(handleFill)),
				surfaceRect(cam, r, outline(selectionColor, 1)))
		}
		c := canvas.NewCircle(handleFill)
		c.StrokeColor = selectionColor
		c.StrokeWidth = 1
		objs = append(objs, surfaceRect(cam, f.Handles.Rotate, c))
	}

	if f.Editing || f.TextBounds != (gg.Rect{}) {
		objs = append(objs, surfaceRect(cam, f.TextBounds, outline(selectionColor, 1)))
	}
	for _, r := range f.TextSelection {
		objs = append(objs, surfaceRect(cam, r, filled(selectionFill)))
	}
	if f.Editing {
		objs = append(objs, surfaceRect(cam, f.Caret, filled(caretColor)))
	}
	return objs
}
