package ui

import (
	"image/color"

	"InkBoard/internal/config"
	"InkBoard/internal/pens"
	"InkBoard/internal/strokes"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const fileExtension = ".inkb"

var selectorStyles = []string{
	string(config.SelectorPolygon),
	string(config.SelectorRectangle),
	string(config.SelectorSingle),
	string(config.SelectorIntersectingPath),
}

var textColors = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 140, A: 255},
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

func strokeColor(c color.Color) strokes.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return strokes.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255, A: float64(n.A) / 255}
}

// Toolbar holds the controls that mirror board state.
type Toolbar struct {
	board  *BoardWidget
	window fyne.Window

	penLabel      *widget.Label
	undo, redo    *widget.Button
	selectorStyle *widget.Select
	fontSize      *widget.Slider

	Object fyne.CanvasObject
}

func NewToolbar(win fyne.Window, bw *BoardWidget) *Toolbar {
	t := &Toolbar{board: bw, window: win}

	files := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.save),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), t.exportPDF),
	)
	if bw.ReadOnly {
		t.Object = container.NewHBox(widget.NewLabel("Viewing shared board"), widget.NewSeparator(), files, layout.NewSpacer())
		return t
	}

	files.Append(widget.NewToolbarAction(theme.FolderOpenIcon(), t.open))

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), func() { bw.ChangePenStyle(pens.StyleSelector) }),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { bw.ChangePenStyle(pens.StyleTypewriter) }),
		widget.NewToolbarAction(theme.DeleteIcon(), t.confirmClear),
	)
	t.penLabel = widget.NewLabel("")
	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), bw.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), bw.Redo)

	t.selectorStyle = widget.NewSelect(selectorStyles, func(s string) {
		bw.Board().SetSelectorStyle(config.SelectorStyle(s))
	})

	onColorTapped := func(c color.Color) {
		bw.Board().ChangeTextStyle(func(ts *strokes.TextStyle) { ts.Color = strokeColor(c) })
	}
	colorBox := container.NewHBox()
	for _, c := range textColors {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	t.fontSize = widget.NewSlider(8, 96)
	t.fontSize.OnChangeEnded = func(v float64) {
		bw.Board().ChangeTextStyle(func(ts *strokes.TextStyle) { ts.FontSize = v })
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.fontSize)

	t.Object = container.NewHBox(
		widget.NewLabel("Pen:"),
		tools,
		t.penLabel,
		widget.NewSeparator(),
		t.undo, t.redo,
		widget.NewSeparator(),
		widget.NewLabel("Select:"),
		t.selectorStyle,
		widget.NewSeparator(),
		widget.NewLabel("Text:"),
		colorBox,
		sliderContainer,
		widget.NewSeparator(),
		files,
		layout.NewSpacer(),
	)
	t.Refresh()
	return t
}

// Refresh syncs the controls with the board.
func (t *Toolbar) Refresh() {
	if t.penLabel == nil {
		return
	}
	b := t.board.Board()
	t.penLabel.SetText(b.PenStyle().String())
	if b.CanUndo() {
		t.undo.Enable()
	} else {
		t.undo.Disable()
	}
	if b.CanRedo() {
		t.redo.Enable()
	} else {
		t.redo.Disable()
	}
	p := b.Pens()
	if t.selectorStyle.Selected != string(p.Selector.Style) {
		t.selectorStyle.SetSelected(string(p.Selector.Style))
	}
	t.fontSize.SetValue(p.Typewriter.TextStyle.FontSize)
}

func (t *Toolbar) confirmClear() {
	dialog.ShowConfirm("Clear board", "Remove every stroke? This can be undone.", func(ok bool) {
		if ok {
			t.board.Clear()
		}
	}, t.window)
}

func (t *Toolbar) save() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.window)
			return
		}
		if w == nil {
			return
		}
		t.board.SaveToFile(w)
	}, t.window)
	d.SetFileName("board" + fileExtension)
	d.SetFilter(storage.NewExtensionFileFilter([]string{fileExtension}))
	d.Show()
}

func (t *Toolbar) open() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.window)
			return
		}
		if r == nil {
			return
		}
		t.board.LoadFromFile(r)
	}, t.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{fileExtension}))
	d.Show()
}

func (t *Toolbar) exportPDF() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.window)
			return
		}
		if w == nil {
			return
		}
		t.board.ExportPDF(w)
	}, t.window)
	d.SetFileName("board.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}
