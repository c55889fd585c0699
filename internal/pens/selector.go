package pens

import (
	"math"

	"InkBoard/internal/config"
	"InkBoard/internal/engine"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"

	"fyne.io/fyne/v2"
	"github.com/gogpu/gg"
)

const (
	// Surface distances, divided by the zoom before use.
	selectorTranslateThreshold = 1.414
	resizeNodeSize             = 18.0
	rotateNodeSize             = 18.0

	selectorRotateThreshold = 0.005
)

var duplicateOffset = gg.Pt(20, 20)

type selectorState int

const (
	selectorIdle selectorState = iota
	selectorSelecting
	selectorModify
)

// ModifyKind is the sub-state of a selector holding a selection.
type ModifyKind int

const (
	ModifyUp ModifyKind = iota
	ModifyHover
	ModifyTranslate
	ModifyRotate
	ModifyResize
)

type ResizeCorner int

const (
	CornerTopLeft ResizeCorner = iota
	CornerTopRight
	CornerBottomRight
	CornerBottomLeft
)

type modifyState struct {
	kind ModifyKind
	pos  gg.Point

	// translate
	start, current gg.Point

	// rotate
	pivot                    gg.Point
	startAngle, currentAngle float64

	// resize
	corner      ResizeCorner
	startBounds gg.Rect
	startPos    gg.Point
}

// Selector selects strokes with a lasso, a box, single clicks or a
// crossing path, then translates, rotates, resizes, duplicates or trashes
// them.
type Selector struct {
	state     selectorState
	path      []gg.Point
	modify    modifyState
	selection []state.Handle
	bounds    gg.Rect
}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) Style() Style { return StyleSelector }

// Selection returns the handles being modified.
func (s *Selector) Selection() []state.Handle {
	if s.state != selectorModify {
		return nil
	}
	return s.selection
}

// SelectionBounds returns the bounds of the current selection.
func (s *Selector) SelectionBounds() (gg.Rect, bool) {
	return s.bounds, s.state == selectorModify
}

// Path returns the path drawn while selecting.
func (s *Selector) Path() []gg.Point {
	if s.state != selectorSelecting {
		return nil
	}
	return s.path
}

// Modify returns the current modify sub-state.
func (s *Selector) Modify() ModifyKind {
	return s.modify.kind
}

// BoundsOnDoc is the area the selector draws on.
func (s *Selector) BoundsOnDoc(cam *engine.Camera) (gg.Rect, bool) {
	switch s.state {
	case selectorSelecting:
		if len(s.path) == 0 {
			return gg.Rect{}, false
		}
		return geom.RectFromPoints(s.path...), true
	case selectorModify:
		return geom.Loosened(s.bounds, (resizeNodeSize+rotateNodeSize)/cam.TotalZoom()), true
	}
	return gg.Rect{}, false
}

// Handles are the grab regions around a selection.
type Handles struct {
	Rotate gg.Rect
	Resize [4]gg.Rect
}

// Handles returns the grab regions for the current zoom, indexed by
// ResizeCorner.
func (s *Selector) Handles(cam *engine.Camera) (Handles, bool) {
	if s.state != selectorModify {
		return Handles{}, false
	}
	var h Handles
	h.Rotate = rotateNodeBounds(s.bounds, cam)
	for c := CornerTopLeft; c <= CornerBottomLeft; c++ {
		h.Resize[c] = resizeNodeBounds(c, s.bounds, cam)
	}
	return h, true
}

// rotateNodeBounds is the box around the circular rotate node sitting
// diagonally outside the top right corner.
func rotateNodeBounds(bounds gg.Rect, cam *engine.Camera) gg.Rect {
	z := cam.TotalZoom()
	c := gg.Pt(bounds.Max.X+rotateNodeSize/z, bounds.Min.Y-rotateNodeSize/z)
	half := rotateNodeSize * 0.5 / z
	return geom.FromHalfExtents(c, gg.Pt(half, half))
}

func rotateNodeHit(bounds gg.Rect, cam *engine.Camera, p gg.Point) bool {
	r := rotateNodeBounds(bounds, cam)
	return geom.Center(r).Distance(p) <= r.Width()*0.5
}

func resizeNodeBounds(c ResizeCorner, bounds gg.Rect, cam *engine.Camera) gg.Rect {
	half := resizeNodeSize * 0.5 / cam.TotalZoom()
	return geom.FromHalfExtents(geom.Corners(bounds)[c], gg.Pt(half, half))
}

func (s *Selector) HandleEvent(ev Event, v *engine.View) (Progress, engine.Flags) {
	switch ev.Kind {
	case EventDown:
		return s.down(ev, v)
	case EventUp:
		return s.up(ev, v)
	case EventProximity:
		return s.proximity(ev, v)
	case EventKeyPressed:
		return s.key(ev, v)
	case EventText:
		if s.state == selectorIdle {
			return ProgressIdle, engine.Flags{}
		}
		return ProgressInProgress, engine.Flags{}
	case EventCancel:
		return s.cancel(v)
	}
	return ProgressIdle, engine.Flags{}
}

func (s *Selector) down(ev Event, v *engine.View) (Progress, engine.Flags) {
	var flags engine.Flags
	switch s.state {
	case selectorIdle:
		if sel := v.Store.SelectionKeys(); len(sel) > 0 {
			v.Store.SetSelected(sel, false)
			flags.SelectionChanged = true
			flags.Redraw = true
		}
		s.state = selectorSelecting
		s.path = []gg.Point{ev.Pos}
		return ProgressInProgress, flags
	case selectorSelecting:
		s.addToPath(v.Pens.Selector.Style, ev.Pos)
		flags.Redraw = true
		return ProgressInProgress, flags
	}

	z := v.Camera.TotalZoom()
	m := &s.modify
	switch m.kind {
	case ModifyUp, ModifyHover:
		return s.pickHandle(ev, v)
	case ModifyTranslate:
		offset := ev.Pos.Sub(m.current)
		if offset.Length() > selectorTranslateThreshold/z {
			v.Store.TranslateStrokes(s.selection, offset)
			v.Store.TranslateStrokesImages(s.selection, offset)
			s.bounds = geom.Translate(s.bounds, offset)
			// strokes scrolled into view need images
			v.RegenerateViewport(false)
			m.current = ev.Pos
			flags.Redraw = true
		}
	case ModifyRotate:
		angle := geom.Angle(ev.Pos.Sub(m.pivot))
		delta := normalizeAngle(angle - m.currentAngle)
		if math.Abs(delta) > selectorRotateThreshold {
			v.Store.RotateStrokes(s.selection, delta, m.pivot)
			v.RegenerateStrokes(s.selection)
			if b, ok := v.Store.BoundsForStrokes(s.selection); ok {
				s.bounds = b
			}
			m.currentAngle = angle
			flags.Redraw = true
		}
	case ModifyResize:
		s.resize(ev, v)
		flags.Redraw = true
	}
	return ProgressInProgress, flags
}

// pickHandle resolves a press on a selection: rotate node, resize nodes,
// the selection itself, another stroke to add, or empty space.
func (s *Selector) pickHandle(ev Event, v *engine.View) (Progress, engine.Flags) {
	var flags engine.Flags
	p := ev.Pos
	if rotateNodeHit(s.bounds, v.Camera, p) {
		angle := geom.Angle(p.Sub(geom.Center(s.bounds)))
		s.modify = modifyState{kind: ModifyRotate, pivot: geom.Center(s.bounds), startAngle: angle, currentAngle: angle}
		return ProgressInProgress, flags
	}
	for c := CornerTopLeft; c <= CornerBottomLeft; c++ {
		if resizeNodeBounds(c, s.bounds, v.Camera).Contains(p) {
			s.modify = modifyState{kind: ModifyResize, corner: c, startBounds: s.bounds, startPos: p}
			return ProgressInProgress, flags
		}
	}
	if s.bounds.Contains(p) {
		s.modify = modifyState{kind: ModifyTranslate, start: p, current: p}
		return ProgressInProgress, flags
	}
	if v.Pens.Selector.Style == config.SelectorSingle || ev.Shift() {
		if key, ok := v.Store.TopmostAt(v.Camera.Viewport(), p); ok && !v.Store.Selected(key) {
			v.Store.SetSelected([]state.Handle{key}, true)
			s.selection = append(s.selection, key)
			if b, ok := v.Store.BoundsForStrokes(s.selection); ok {
				s.bounds = b
			}
			flags.SelectionChanged = true
			flags.Redraw = true
			return ProgressInProgress, flags
		}
	}
	v.Store.SetSelected(s.selection, false)
	s.reset()
	flags.SelectionChanged = true
	flags.Redraw = true
	return ProgressFinished, flags
}

func (s *Selector) resize(ev Event, v *engine.View) {
	m := &s.modify
	z := v.Camera.TotalZoom()
	d := ev.Pos.Sub(m.startPos)
	sb := m.startBounds
	var offset, pivot gg.Point
	switch m.corner {
	case CornerTopLeft:
		offset, pivot = d.Mul(-1), sb.Max
	case CornerTopRight:
		offset, pivot = gg.Pt(d.X, -d.Y), gg.Pt(sb.Min.X, sb.Max.Y)
	case CornerBottomLeft:
		offset, pivot = gg.Pt(-d.X, d.Y), gg.Pt(sb.Max.X, sb.Min.Y)
	default:
		offset, pivot = d, sb.Min
	}
	extents := geom.Extents(sb).Add(offset)
	if v.Pens.Selector.ResizeLockAspectRatio || ev.Ctrl() {
		extents = geom.ScaleLockedAspect(geom.Extents(sb), extents)
	}
	minSide := (resizeNodeSize + rotateNodeSize) / z
	extents = geom.Max(extents, gg.Pt(minSide, minSide))

	scale := geom.DivSafe(extents, geom.Extents(s.bounds))
	v.Store.ScaleStrokesWithPivot(s.selection, scale, pivot)
	v.RegenerateStrokes(s.selection)
	s.bounds = geom.TransformRect(geom.ScaleAbout(scale, pivot), s.bounds)
}

func (s *Selector) addToPath(style config.SelectorStyle, p gg.Point) {
	switch style {
	case config.SelectorRectangle:
		s.path = append(s.path[:min(len(s.path), 1)], p)
	case config.SelectorSingle:
		s.path = append(s.path[:0], p)
	default:
		s.path = append(s.path, p)
	}
}

func (s *Selector) resolvePath(v *engine.View) []state.Handle {
	if len(s.path) == 0 {
		return nil
	}
	switch v.Pens.Selector.Style {
	case config.SelectorRectangle:
		return v.Store.StrokesContainedInAabb(geom.RectFromPoints(s.path[0], s.path[len(s.path)-1]))
	case config.SelectorSingle:
		if key, ok := v.Store.TopmostAt(v.Camera.Viewport(), s.path[len(s.path)-1]); ok {
			return []state.Handle{key}
		}
		return nil
	case config.SelectorIntersectingPath:
		if len(s.path) < 3 {
			return nil
		}
		return v.Store.StrokesIntersectingPath(s.path)
	default:
		if len(s.path) < 3 {
			return nil
		}
		return v.Store.StrokesContainedInPolygon(s.path)
	}
}

func (s *Selector) up(ev Event, v *engine.View) (Progress, engine.Flags) {
	var flags engine.Flags
	switch s.state {
	case selectorIdle:
		return ProgressIdle, flags
	case selectorSelecting:
		sel := s.resolvePath(v)
		s.path = nil
		flags.Redraw = true
		if !s.enterModify(sel, v) {
			s.reset()
			return ProgressFinished, flags
		}
		flags.SelectionChanged = true
		return ProgressInProgress, flags
	}

	switch s.modify.kind {
	case ModifyTranslate, ModifyRotate, ModifyResize:
		v.Store.UpdateChronoToLast(s.selection)
		if b, ok := v.Store.BoundsForStrokes(s.selection); ok {
			s.bounds = b
		}
		flags.Merge(v.ResizeAutoexpand())
		v.RegenerateViewport(false)
		flags.Merge(v.Record())
		flags.ContentChanged = true
		flags.Redraw = true
	}
	s.hover(ev.Pos, v.Camera)
	return ProgressInProgress, flags
}

func (s *Selector) proximity(ev Event, v *engine.View) (Progress, engine.Flags) {
	switch s.state {
	case selectorIdle:
		return ProgressIdle, engine.Flags{}
	case selectorModify:
		s.hover(ev.Pos, v.Camera)
	}
	return ProgressInProgress, engine.Flags{}
}

func (s *Selector) hover(p gg.Point, cam *engine.Camera) {
	if b, ok := s.BoundsOnDoc(cam); ok && b.Contains(p) {
		s.modify = modifyState{kind: ModifyHover, pos: p}
		return
	}
	s.modify = modifyState{kind: ModifyUp}
}

func (s *Selector) key(ev Event, v *engine.View) (Progress, engine.Flags) {
	var flags engine.Flags
	if ev.Is('a') && ev.Ctrl() {
		return s.selectAll(v)
	}
	if s.state != selectorModify {
		if s.state == selectorIdle {
			return ProgressIdle, flags
		}
		return ProgressInProgress, flags
	}
	switch {
	case ev.Is('d') && ev.Ctrl():
		dups := v.Store.DuplicateSelection()
		v.Store.TranslateStrokes(dups, duplicateOffset)
		v.Store.TranslateStrokesImages(dups, duplicateOffset)
		v.RegenerateStrokes(dups)
		s.selection = dups
		s.bounds = geom.Translate(s.bounds, duplicateOffset)
		flags.Merge(v.ResizeAutoexpand())
		flags.Merge(v.Record())
		flags.ContentChanged = true
		flags.SelectionChanged = true
		flags.Redraw = true
		return ProgressInProgress, flags
	case ev.Key == fyne.KeyDelete || ev.Key == fyne.KeyBackspace:
		v.Store.SetTrashed(s.selection, true)
		flags.ContentChanged = true
		flags.Merge(s.cancelSelection(v))
		return ProgressFinished, flags
	case ev.Key == fyne.KeyEscape:
		flags.Merge(s.cancelSelection(v))
		return ProgressFinished, flags
	}
	return ProgressInProgress, flags
}

// selectAll selects every visible stroke.
func (s *Selector) selectAll(v *engine.View) (Progress, engine.Flags) {
	flags := engine.Flags{SelectionChanged: true, Redraw: true}
	if s.state == selectorModify {
		v.Store.SetSelected(s.selection, false)
	}
	if !s.enterModify(v.Store.UntrashedKeys(), v) {
		s.reset()
		return ProgressFinished, flags
	}
	return ProgressInProgress, flags
}

// enterModify selects keys and switches to modifying them. It fails for
// an empty set.
func (s *Selector) enterModify(keys []state.Handle, v *engine.View) bool {
	if len(keys) == 0 {
		return false
	}
	v.Store.SetSelected(keys, true)
	b, ok := v.Store.BoundsForStrokes(keys)
	if !ok {
		return false
	}
	s.state = selectorModify
	s.selection = keys
	s.bounds = b
	s.modify = modifyState{kind: ModifyUp}
	return true
}

func (s *Selector) cancelSelection(v *engine.View) engine.Flags {
	flags := engine.Flags{SelectionChanged: true, Redraw: true}
	v.Store.SetSelected(s.selection, false)
	flags.Merge(v.ResizeAutoexpand())
	v.RegenerateViewport(false)
	flags.Merge(v.Record())
	s.reset()
	return flags
}

func (s *Selector) cancel(v *engine.View) (Progress, engine.Flags) {
	switch s.state {
	case selectorSelecting:
		s.reset()
		return ProgressFinished, engine.Flags{Redraw: true}
	case selectorModify:
		return ProgressFinished, s.cancelSelection(v)
	}
	return ProgressIdle, engine.Flags{}
}

func (s *Selector) reset() {
	*s = Selector{}
}

// UpdateState picks up the store selection, e.g. after undo.
func (s *Selector) UpdateState(v *engine.View) engine.Flags {
	if s.state == selectorSelecting {
		return engine.Flags{}
	}
	sel := v.Store.SelectionKeys()
	if len(sel) == 0 {
		if s.state == selectorModify {
			s.reset()
			return engine.Flags{Redraw: true}
		}
		return engine.Flags{}
	}
	b, _ := v.Store.BoundsForStrokes(sel)
	if s.state != selectorModify {
		s.modify = modifyState{kind: ModifyUp}
	}
	s.state = selectorModify
	s.selection = sel
	s.bounds = b
	return engine.Flags{Redraw: true}
}

// normalizeAngle maps a to (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
