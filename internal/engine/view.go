// Package engine holds the camera, the document and the View that pens
// borrow for the duration of one event.
package engine

import (
	"InkBoard/internal/config"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// View bundles what a pen may touch while handling one event. It is
// borrowed from the board and must not be kept past the call.
type View struct {
	Store  *state.Store
	Doc    *Document
	Camera *Camera
	Pens   *config.Pens
	Tasks  *state.TaskQueue
	Pool   *render.Pool
}

// RegenerateViewport starts background rendering of the visible strokes
// that need it, or all visible strokes when force is set.
func (v *View) RegenerateViewport(force bool) {
	v.Store.RegenerateRenderingInViewportThreaded(v.Pool, v.Tasks, force, v.Camera.Viewport(), v.Camera.RenderScale())
}

// RegenerateStrokes starts background rendering of keys.
func (v *View) RegenerateStrokes(keys []state.Handle) {
	v.Store.RegenerateRenderingForStrokesThreaded(v.Pool, v.Tasks, keys, v.Camera.Viewport(), v.Camera.RenderScale())
}

// RenderStroke renders key right away. Failures leave the stroke dirty.
func (v *View) RenderStroke(key state.Handle) {
	if err := v.Store.RegenerateRenderingForStroke(key, v.Camera.Viewport(), v.Camera.RenderScale()); err != nil {
		logging.Logger().Warn("render stroke", "stroke", key, "err", err)
	}
}

// Record pushes a history entry.
func (v *View) Record() Flags {
	if !v.Store.Record() {
		return Flags{}
	}
	return Flags{HistoryChanged: true}
}

// UpdateLatestHistoryEntry folds the current state into the live entry.
func (v *View) UpdateLatestHistoryEntry() Flags {
	v.Store.UpdateLatestHistoryEntry()
	return Flags{HistoryChanged: true}
}

// ResizeAutoexpand grows the document around the content.
func (v *View) ResizeAutoexpand() Flags {
	v.Doc.ResizeAutoexpand(v.Store, v.Camera)
	return Flags{Resize: true}
}
