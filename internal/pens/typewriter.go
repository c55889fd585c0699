package pens

import (
	"math"
	"strings"
	"unicode"

	"InkBoard/internal/config"
	"InkBoard/internal/engine"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/strokes"

	"fyne.io/fyne/v2"
	"github.com/gogpu/gg"
)

const (
	typewriterNodeSize           = 18.0
	typewriterTranslateThreshold = 1.0
	typewriterMinWidth           = 2.0
)

var insertTextOffset = gg.Pt(32, 32)

type typewriterState int

const (
	typewriterIdle typewriterState = iota
	// typewriterStart has a position for a text that does not exist yet.
	typewriterStart
	typewriterModifying
)

// TextModify is the sub-state of a typewriter editing a text.
type TextModify int

const (
	TextUp TextModify = iota
	TextHover
	TextSelecting
	TextTranslating
	TextAdjustWidth
)

// Typewriter creates and edits text strokes.
type Typewriter struct {
	state typewriterState
	pos   gg.Point

	key     state.Handle
	cursor  int
	penDown bool

	mod TextModify
	// selecting
	selCursor int
	finished  bool
	// translating and adjusting the width
	start, current gg.Point
	startWidth     float64
}

func NewTypewriter() *Typewriter {
	return &Typewriter{}
}

func (t *Typewriter) Style() Style { return StyleTypewriter }

// Editing returns the text being edited and the cursor.
func (t *Typewriter) Editing() (state.Handle, int, bool) {
	if t.state != typewriterModifying {
		return state.Handle{}, 0, false
	}
	return t.key, t.cursor, true
}

func (t *Typewriter) Modify() TextModify { return t.mod }

// SelectionRange returns the ordered selected byte range.
func (t *Typewriter) SelectionRange() (int, int, bool) {
	if t.state != typewriterModifying || t.mod != TextSelecting || t.cursor == t.selCursor {
		return 0, 0, false
	}
	return min(t.cursor, t.selCursor), max(t.cursor, t.selCursor), true
}

func textStyleFromConfig(p *config.Pens) strokes.TextStyle {
	c, err := strokes.ParseColor(p.Typewriter.TextStyle.Color)
	if err != nil {
		c = strokes.Black
	}
	st := strokes.TextStyle{FontSize: p.Typewriter.TextStyle.FontSize, Color: c}
	if p.Typewriter.MaxWidthEnabled {
		st.MaxWidth = p.Typewriter.TextWidth
	}
	return st
}

func syncConfigFromText(p *config.Pens, rt *strokes.RichText) {
	p.Typewriter.TextStyle.FontSize = rt.Style.FontSize
	p.Typewriter.TextStyle.Color = rt.Style.Color.String()
	p.Typewriter.MaxWidthEnabled = rt.Style.MaxWidth > 0
	if rt.Style.MaxWidth > 0 {
		p.Typewriter.TextWidth = rt.Style.MaxWidth
	}
}

// text returns the edited text, or nil when it was removed, trashed or
// replaced by something else.
func (t *Typewriter) text(v *engine.View) *strokes.RichText {
	if v.Store.Trashed(t.key) {
		return nil
	}
	st, ok := v.Store.Get(t.key)
	if !ok || st.Kind != strokes.KindText {
		return nil
	}
	return st.Text
}

// textRect spans the text and the configured text width.
func (t *Typewriter) textRect(rt *strokes.RichText, p *config.Pens) gg.Rect {
	o := rt.Origin()
	return geom.RectFromPoints(o, o.Add(gg.Pt(p.Typewriter.TextWidth, 0))).Union(rt.Bounds())
}

func (t *Typewriter) bounds(rt *strokes.RichText, v *engine.View) gg.Rect {
	return geom.Loosened(t.textRect(rt, v.Pens), typewriterNodeSize/v.Camera.TotalZoom())
}

func (t *Typewriter) translateNode(rt *strokes.RichText, v *engine.View) gg.Rect {
	b := t.bounds(rt, v)
	n := typewriterNodeSize / v.Camera.TotalZoom()
	return gg.Rect{Min: b.Min, Max: b.Min.Add(gg.Pt(n, n))}
}

func (t *Typewriter) widthNode(rt *strokes.RichText, v *engine.View) gg.Rect {
	z := v.Camera.TotalZoom()
	r := t.textRect(rt, v.Pens)
	c := gg.Pt(r.Min.X+v.Pens.Typewriter.TextWidth, r.Min.Y-typewriterNodeSize*0.5/z)
	half := typewriterNodeSize * 0.5 / z
	return geom.FromHalfExtents(c, gg.Pt(half, half))
}

// Nodes returns the translate and width grab regions of the edited text.
func (t *Typewriter) Nodes(v *engine.View) (translate, width gg.Rect, ok bool) {
	if t.state != typewriterModifying {
		return gg.Rect{}, gg.Rect{}, false
	}
	rt := t.text(v)
	if rt == nil {
		return gg.Rect{}, gg.Rect{}, false
	}
	return t.translateNode(rt, v), t.widthNode(rt, v), true
}

// BoundsOnDoc is the area the typewriter draws on.
func (t *Typewriter) BoundsOnDoc(v *engine.View) (gg.Rect, bool) {
	switch t.state {
	case typewriterStart:
		st := textStyleFromConfig(v.Pens)
		return gg.Rect{Min: t.pos, Max: t.pos.Add(gg.Pt(math.Max(1, v.Pens.Typewriter.TextWidth), st.FontSize))}, true
	case typewriterModifying:
		if rt := t.text(v); rt != nil {
			return t.bounds(rt, v), true
		}
	}
	return gg.Rect{}, false
}

func (t *Typewriter) HandleEvent(ev Event, v *engine.View) (Progress, engine.Flags) {
	if t.state == typewriterModifying && t.text(v) == nil {
		t.reset()
	}
	switch ev.Kind {
	case EventDown:
		return t.down(ev, v)
	case EventUp:
		return t.up(ev, v)
	case EventProximity:
		return t.proximity(ev, v)
	case EventKeyPressed:
		return t.keyPressed(ev, v)
	case EventText:
		return t.textEvent(ev.Text, v)
	case EventCancel:
		return t.finish()
	}
	return ProgressIdle, engine.Flags{}
}

func (t *Typewriter) down(ev Event, v *engine.View) (Progress, engine.Flags) {
	var flags engine.Flags
	if t.state == typewriterIdle || t.state == typewriterStart {
		if key, ok := v.Store.TopmostAt(v.Camera.Viewport(), ev.Pos); ok {
			if st, ok := v.Store.Get(key); ok && st.Kind == strokes.KindText {
				v.Store.UpdateChronoToLast([]state.Handle{key})
				syncConfigFromText(v.Pens, st.Text)
				t.state = typewriterModifying
				t.key = key
				t.cursor = st.Text.CursorForPos(ev.Pos)
				t.selCursor = t.cursor
				t.mod = TextSelecting
				t.penDown = true
				flags.Redraw = true
				flags.RefreshUI = true
				return ProgressInProgress, flags
			}
		}
		t.state = typewriterStart
		t.pos = ev.Pos
		flags.Redraw = true
		return ProgressInProgress, flags
	}

	rt := t.text(v)
	z := v.Camera.TotalZoom()
	wasDown := t.penDown
	t.penDown = true
	switch t.mod {
	case TextSelecting:
		if wasDown && !t.finished {
			t.cursor = rt.CursorForPos(ev.Pos)
			flags.Redraw = true
			return ProgressInProgress, flags
		}
		return t.press(ev, rt, v)
	case TextUp, TextHover:
		return t.press(ev, rt, v)
	case TextTranslating:
		offset := ev.Pos.Sub(t.current)
		if offset.Length() > typewriterTranslateThreshold/z {
			keys := []state.Handle{t.key}
			v.Store.TranslateStrokes(keys, offset)
			v.Store.TranslateStrokesImages(keys, offset)
			t.current = ev.Pos
			flags.Redraw = true
		}
	case TextAdjustWidth:
		if math.Abs(ev.Pos.X-t.current.X) > 1/z {
			width := math.Max(t.startWidth+ev.Pos.X-t.start.X, typewriterMinWidth)
			v.Pens.Typewriter.TextWidth = width
			if st, ok := v.Store.StrokeMut(t.key); ok && st.Text.Style.MaxWidth > 0 {
				st.Text.Style.MaxWidth = width
				v.Store.SetRenderDirty([]state.Handle{t.key})
				v.RenderStroke(t.key)
			}
			t.current = ev.Pos
			flags.Redraw = true
		}
	}
	return ProgressInProgress, flags
}

// press starts an interaction on the edited text: its nodes, a new
// selection, or leaving the text when pressed outside.
func (t *Typewriter) press(ev Event, rt *strokes.RichText, v *engine.View) (Progress, engine.Flags) {
	flags := engine.Flags{Redraw: true}
	switch {
	case t.translateNode(rt, v).Contains(ev.Pos):
		t.mod = TextTranslating
		t.start, t.current = ev.Pos, ev.Pos
	case t.widthNode(rt, v).Contains(ev.Pos):
		t.mod = TextAdjustWidth
		t.start, t.current = ev.Pos, ev.Pos
		t.startWidth = v.Pens.Typewriter.TextWidth
	case t.bounds(rt, v).Contains(ev.Pos):
		t.cursor = rt.CursorForPos(ev.Pos)
		if !ev.Shift() || t.mod != TextSelecting {
			t.selCursor = t.cursor
		}
		t.mod = TextSelecting
		t.finished = false
	default:
		// leave this text and start over at the new position
		t.reset()
		_, f := t.down(ev, v)
		flags.Merge(f)
	}
	return ProgressInProgress, flags
}

func (t *Typewriter) up(ev Event, v *engine.View) (Progress, engine.Flags) {
	var flags engine.Flags
	switch t.state {
	case typewriterIdle:
		return ProgressIdle, flags
	case typewriterStart:
		return ProgressInProgress, flags
	}
	t.penDown = false
	switch t.mod {
	case TextSelecting:
		t.finished = true
		if t.cursor == t.selCursor {
			t.mod = TextUp
		}
		flags.Redraw = true
	case TextTranslating, TextAdjustWidth:
		flags.Merge(v.ResizeAutoexpand())
		v.RegenerateViewport(false)
		flags.Merge(v.Record())
		flags.ContentChanged = true
		flags.Redraw = true
		t.mod = TextUp
		t.hover(ev.Pos, v)
	}
	return ProgressInProgress, flags
}

func (t *Typewriter) proximity(ev Event, v *engine.View) (Progress, engine.Flags) {
	switch t.state {
	case typewriterIdle:
		return ProgressIdle, engine.Flags{}
	case typewriterModifying:
		t.hover(ev.Pos, v)
	}
	return ProgressInProgress, engine.Flags{}
}

func (t *Typewriter) hover(p gg.Point, v *engine.View) {
	if t.mod != TextUp && t.mod != TextHover {
		return
	}
	rt := t.text(v)
	if rt != nil && t.bounds(rt, v).Contains(p) {
		t.mod = TextHover
	} else {
		t.mod = TextUp
	}
}

func (t *Typewriter) keyPressed(ev Event, v *engine.View) (Progress, engine.Flags) {
	if isModifierKey(ev.Key) {
		return t.progress(), engine.Flags{}
	}
	switch t.state {
	case typewriterIdle:
		return ProgressIdle, engine.Flags{}
	case typewriterStart:
		switch {
		case ev.Key == fyne.KeyEscape:
			return t.finish()
		case ev.Key == fyne.KeyReturn || ev.Key == fyne.KeyEnter:
			return t.textEvent("\n", v)
		case ev.Key == fyne.KeyTab:
			return t.textEvent("\t", v)
		case ev.Rune != 0 && !ev.Ctrl():
			return t.textEvent(string(ev.Rune), v)
		}
		return ProgressInProgress, engine.Flags{}
	}

	rt := t.text(v)
	if ev.Ctrl() && ev.Is('a') {
		t.selCursor = 0
		t.cursor = len(rt.Text)
		t.mod = TextSelecting
		t.finished = true
		return ProgressInProgress, engine.Flags{Redraw: true}
	}

	switch ev.Key {
	case fyne.KeyEscape:
		return t.finish()
	case fyne.KeyBackspace:
		return ProgressInProgress, t.erase(v, rt.PrevGrapheme, rt.PrevWord, ev.Ctrl())
	case fyne.KeyDelete:
		return ProgressInProgress, t.erase(v, rt.NextGrapheme, rt.NextWord, ev.Ctrl())
	case fyne.KeyReturn, fyne.KeyEnter:
		return ProgressInProgress, t.insert(v, "\n")
	case fyne.KeyTab:
		return ProgressInProgress, t.insert(v, "\t")
	case fyne.KeyLeft:
		return ProgressInProgress, t.move(ev, pick(ev.Ctrl(), rt.PrevWord, rt.PrevGrapheme))
	case fyne.KeyRight:
		return ProgressInProgress, t.move(ev, pick(ev.Ctrl(), rt.NextWord, rt.NextGrapheme))
	case fyne.KeyUp:
		return ProgressInProgress, t.move(ev, rt.LineUp)
	case fyne.KeyDown:
		return ProgressInProgress, t.move(ev, rt.LineDown)
	case fyne.KeyHome:
		return ProgressInProgress, t.move(ev, rt.LineStart)
	case fyne.KeyEnd:
		return ProgressInProgress, t.move(ev, rt.LineEnd)
	}
	if ev.Rune != 0 && !ev.Ctrl() {
		return ProgressInProgress, t.insert(v, string(ev.Rune))
	}
	return ProgressInProgress, engine.Flags{}
}

func pick(cond bool, a, b func(int) int) func(int) int {
	if cond {
		return a
	}
	return b
}

func (t *Typewriter) progress() Progress {
	if t.state == typewriterIdle {
		return ProgressIdle
	}
	return ProgressInProgress
}

// move moves the cursor, extending the selection while shift is held.
func (t *Typewriter) move(ev Event, to func(int) int) engine.Flags {
	if ev.Shift() {
		if t.mod != TextSelecting {
			t.selCursor = t.cursor
			t.mod = TextSelecting
			t.finished = true
		}
		t.cursor = to(t.cursor)
		return engine.Flags{Redraw: true}
	}
	if a, b, ok := t.SelectionRange(); ok && (ev.Key == fyne.KeyLeft || ev.Key == fyne.KeyRight) {
		t.cursor = pickInt(ev.Key == fyne.KeyLeft, a, b)
	} else {
		t.cursor = to(t.cursor)
	}
	t.mod = TextUp
	return engine.Flags{Redraw: true}
}

func pickInt(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

func (t *Typewriter) textEvent(s string, v *engine.View) (Progress, engine.Flags) {
	if s == "" {
		return t.progress(), engine.Flags{}
	}
	switch t.state {
	case typewriterIdle:
		return ProgressIdle, engine.Flags{}
	case typewriterStart:
		return ProgressInProgress, t.create(v, t.pos, s)
	}
	return ProgressInProgress, t.insert(v, s)
}

// create inserts a new text stroke holding s at pos and starts editing it.
func (t *Typewriter) create(v *engine.View, pos gg.Point, s string) engine.Flags {
	st := strokes.NewRichText("", pos, textStyleFromConfig(v.Pens))
	cursor := st.Text.Insert(0, s)
	key := v.Store.Insert(st)
	*t = Typewriter{state: typewriterModifying, key: key, cursor: cursor, mod: TextUp}
	v.RenderStroke(key)
	flags := engine.Flags{Redraw: true, ContentChanged: true}
	flags.Merge(v.ResizeAutoexpand())
	flags.Merge(v.Record())
	return flags
}

// insert replaces the selection, if any, with s.
func (t *Typewriter) insert(v *engine.View, s string) engine.Flags {
	a, b, sel := t.SelectionRange()
	return t.edit(v, containsWhitespace(s), func(rt *strokes.RichText) int {
		if sel {
			return rt.Replace(a, b, s)
		}
		return rt.Insert(t.cursor, s)
	})
}

// erase removes the selection, or one grapheme or word towards step.
func (t *Typewriter) erase(v *engine.View, grapheme, word func(int) int, byWord bool) engine.Flags {
	a, b, sel := t.SelectionRange()
	if !sel {
		step := pick(byWord, word, grapheme)
		a, b = t.cursor, step(t.cursor)
		if a == b {
			t.mod = TextUp
			return engine.Flags{}
		}
	}
	return t.edit(v, false, func(rt *strokes.RichText) int {
		return rt.Remove(a, b)
	})
}

// edit applies fn to the edited text. Edits containing whitespace close the
// current history entry; other edits fold into it.
func (t *Typewriter) edit(v *engine.View, whitespace bool, fn func(rt *strokes.RichText) int) engine.Flags {
	st, ok := v.Store.StrokeMut(t.key)
	if !ok || st.Kind != strokes.KindText {
		t.reset()
		return engine.Flags{Redraw: true}
	}
	t.cursor = fn(st.Text)
	t.mod = TextUp
	t.finished = false
	keys := []state.Handle{t.key}
	v.Store.SetRenderDirty(keys)
	v.RenderStroke(t.key)

	flags := engine.Flags{Redraw: true, ContentChanged: true}
	flags.Merge(v.ResizeAutoexpand())
	if whitespace {
		flags.Merge(v.Record())
	} else {
		flags.Merge(v.UpdateLatestHistoryEntry())
	}
	return flags
}

func containsWhitespace(s string) bool {
	return strings.ContainsFunc(s, unicode.IsSpace)
}

// InsertText pastes text into the edited text, or creates a new text at
// preferredPos, falling back to near the top-left of the viewport.
func (t *Typewriter) InsertText(v *engine.View, text string, preferredPos *gg.Point) engine.Flags {
	if text == "" {
		return engine.Flags{}
	}
	if t.state == typewriterModifying && t.text(v) != nil {
		a, b, sel := t.SelectionRange()
		flags := t.edit(v, true, func(rt *strokes.RichText) int {
			if sel {
				return rt.Replace(a, b, text)
			}
			return rt.Insert(t.cursor, text)
		})
		return flags
	}
	pos := v.Camera.Viewport().Min.Add(insertTextOffset)
	if t.state == typewriterStart {
		pos = t.pos
	}
	if preferredPos != nil {
		pos = *preferredPos
	}
	return t.create(v, pos, text)
}

// FetchClipboardContent returns the selected text.
func (t *Typewriter) FetchClipboardContent(v *engine.View) (string, bool) {
	a, b, ok := t.SelectionRange()
	if !ok {
		return "", false
	}
	rt := t.text(v)
	if rt == nil {
		return "", false
	}
	return rt.Slice(a, b), true
}

// CutClipboardContent removes and returns the selected text.
func (t *Typewriter) CutClipboardContent(v *engine.View) (string, engine.Flags) {
	s, ok := t.FetchClipboardContent(v)
	if !ok {
		return "", engine.Flags{}
	}
	a, b, _ := t.SelectionRange()
	flags := t.edit(v, true, func(rt *strokes.RichText) int {
		return rt.Remove(a, b)
	})
	return s, flags
}

// ChangeTextStyle applies fn to the style of the edited text. Without one
// it changes the configured style for new texts.
func (t *Typewriter) ChangeTextStyle(v *engine.View, fn func(*strokes.TextStyle)) engine.Flags {
	if t.state != typewriterModifying {
		st := textStyleFromConfig(v.Pens)
		fn(&st)
		v.Pens.Typewriter.TextStyle.FontSize = st.FontSize
		v.Pens.Typewriter.TextStyle.Color = st.Color.String()
		return engine.Flags{RefreshUI: true}
	}
	st, ok := v.Store.StrokeMut(t.key)
	if !ok || st.Kind != strokes.KindText {
		return engine.Flags{}
	}
	fn(&st.Text.Style)
	syncConfigFromText(v.Pens, st.Text)
	v.Store.SetRenderDirty([]state.Handle{t.key})
	v.RenderStroke(t.key)
	flags := engine.Flags{Redraw: true, ContentChanged: true, RefreshUI: true}
	flags.Merge(v.ResizeAutoexpand())
	flags.Merge(v.Record())
	return flags
}

func (t *Typewriter) finish() (Progress, engine.Flags) {
	if t.state == typewriterIdle {
		return ProgressIdle, engine.Flags{}
	}
	t.reset()
	return ProgressFinished, engine.Flags{Redraw: true}
}

func (t *Typewriter) reset() {
	*t = Typewriter{}
}

// UpdateState resyncs with the edited text after it changed underneath,
// e.g. on undo.
func (t *Typewriter) UpdateState(v *engine.View) engine.Flags {
	if t.state != typewriterModifying {
		return engine.Flags{}
	}
	rt := t.text(v)
	if rt == nil {
		logging.Logger().Debug("typewriter text gone", "stroke", t.key)
		t.reset()
		return engine.Flags{Redraw: true}
	}
	syncConfigFromText(v.Pens, rt)
	t.cursor = rt.Snap(min(t.cursor, len(rt.Text)))
	t.selCursor = rt.Snap(min(t.selCursor, len(rt.Text)))
	return engine.Flags{Redraw: true, RefreshUI: true}
}
