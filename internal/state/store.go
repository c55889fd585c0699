// Package state holds the stroke store: strokes keyed by handles, their
// trash, selection, chronology and render components, history, spatial
// queries and the background render dispatch.
package state

import (
	"InkBoard/internal/strokes"
)

// entry wraps a stroke with the history epoch it was last written in.
// Entries older than the store epoch may be shared with history and are
// cloned before mutation.
type entry struct {
	stroke *strokes.Stroke
	epoch  uint64
}

// Store owns all strokes of a document. It is not safe for concurrent use;
// background render jobs talk to it through a TaskQueue.
type Store struct {
	arena     arena
	strokes   map[Handle]*entry
	trash     map[Handle]TrashComponent
	selection map[Handle]SelectionComponent
	chrono    map[Handle]ChronoComponent
	render    map[Handle]*RenderComponent

	chronoCounter uint32
	epoch         uint64
	history       history

	// Generator turns strokes into images. Defaults to StrokeImages.
	Generator ImageGenerator
}

func NewStore() *Store {
	s := &Store{Generator: StrokeImages{}}
	s.resetMaps()
	s.history = newHistory(DefaultHistoryLen)
	s.history.reset(s.snapshot())
	s.epoch++
	return s
}

func (s *Store) resetMaps() {
	s.strokes = make(map[Handle]*entry)
	s.trash = make(map[Handle]TrashComponent)
	s.selection = make(map[Handle]SelectionComponent)
	s.chrono = make(map[Handle]ChronoComponent)
	s.render = make(map[Handle]*RenderComponent)
}

// Insert adds a stroke on top of the drawing order.
func (s *Store) Insert(st *strokes.Stroke) Handle {
	h := s.arena.alloc()
	s.strokes[h] = &entry{stroke: st, epoch: s.epoch}
	s.trash[h] = TrashComponent{}
	s.selection[h] = SelectionComponent{}
	s.chrono[h] = ChronoComponent{T: s.nextChrono()}
	s.render[h] = newRenderComponent()
	s.checkInvariants()
	return h
}

// Remove drops a stroke with all its components. It returns nil for
// unknown handles.
func (s *Store) Remove(h Handle) *strokes.Stroke {
	e, ok := s.strokes[h]
	if !ok {
		return nil
	}
	delete(s.strokes, h)
	delete(s.trash, h)
	delete(s.selection, h)
	delete(s.chrono, h)
	delete(s.render, h)
	s.arena.release(h)
	s.checkInvariants()
	return e.stroke
}

// Clear empties the store, its history and resets chronology.
func (s *Store) Clear() {
	for h := range s.strokes {
		s.arena.release(h)
	}
	s.resetMaps()
	s.chronoCounter = 0
	s.history.reset(s.snapshot())
	s.epoch++
}

// Len returns the number of strokes, trashed ones included.
func (s *Store) Len() int {
	return len(s.strokes)
}

// Contains reports whether h is live.
func (s *Store) Contains(h Handle) bool {
	_, ok := s.strokes[h]
	return ok
}

// Get returns the stroke for h. The result must not be mutated; use
// StrokeMut for that.
func (s *Store) Get(h Handle) (*strokes.Stroke, bool) {
	e, ok := s.strokes[h]
	if !ok {
		return nil, false
	}
	return e.stroke, true
}

// StrokeMut returns a stroke that may be changed in place, detaching it
// from history first when needed. Callers invalidate rendering themselves.
func (s *Store) StrokeMut(h Handle) (*strokes.Stroke, bool) {
	e, ok := s.strokes[h]
	if !ok {
		return nil, false
	}
	if e.epoch < s.epoch {
		e = &entry{stroke: e.stroke.Clone(), epoch: s.epoch}
		s.strokes[h] = e
	}
	return e.stroke, true
}

// existing filters keys down to live handles.
func (s *Store) existing(keys []Handle) []Handle {
	out := make([]Handle, 0, len(keys))
	for _, k := range keys {
		if _, ok := s.strokes[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (s *Store) SetTrashed(keys []Handle, trashed bool) {
	for _, k := range keys {
		if _, ok := s.trash[k]; ok {
			s.trash[k] = TrashComponent{Trashed: trashed}
			if trashed {
				s.selection[k] = SelectionComponent{}
			}
		}
	}
}

func (s *Store) Trashed(h Handle) bool {
	return s.trash[h].Trashed
}

// SetSelected changes selection of live, non-trashed strokes.
func (s *Store) SetSelected(keys []Handle, selected bool) {
	for _, k := range keys {
		if _, ok := s.selection[k]; ok && !s.trash[k].Trashed {
			s.selection[k] = SelectionComponent{Selected: selected}
		}
	}
}

func (s *Store) Selected(h Handle) bool {
	return s.selection[h].Selected
}

// SetRenderDirty invalidates the render cache of keys.
func (s *Store) SetRenderDirty(keys []Handle) {
	for _, k := range keys {
		if r, ok := s.render[k]; ok {
			r.invalidate()
		}
	}
}

// SetRender switches drawing of keys on or off.
func (s *Store) SetRender(keys []Handle, render bool) {
	for _, k := range keys {
		if r, ok := s.render[k]; ok {
			r.Render = render
		}
	}
}

// RenderComp returns the render component of h.
func (s *Store) RenderComp(h Handle) (*RenderComponent, bool) {
	r, ok := s.render[h]
	return r, ok
}

func (s *Store) filterSorted(keep func(Handle) bool) []Handle {
	var out []Handle
	for k := range s.strokes {
		if keep(k) {
			out = append(out, k)
		}
	}
	s.sortChrono(out)
	return out
}

// Keys returns all live handles in chronological order.
func (s *Store) Keys() []Handle {
	return s.filterSorted(func(Handle) bool { return true })
}

// KeysSortedChrono returns the given keys that are live, in chronological
// order.
func (s *Store) KeysSortedChrono(keys []Handle) []Handle {
	live := s.existing(keys)
	s.sortChrono(live)
	return live
}

// KeysAsRendered returns the strokes drawn in the main pass, bottom to top:
// not trashed, not selected and marked for rendering.
func (s *Store) KeysAsRendered() []Handle {
	return s.filterSorted(func(k Handle) bool {
		return !s.trash[k].Trashed && !s.selection[k].Selected && s.render[k].Render
	})
}

// SelectionKeysAsRendered returns the selected strokes drawn in the
// overlay pass, bottom to top.
func (s *Store) SelectionKeysAsRendered() []Handle {
	return s.filterSorted(func(k Handle) bool {
		return !s.trash[k].Trashed && s.selection[k].Selected && s.render[k].Render
	})
}

// SelectionKeys returns the selected strokes in chronological order.
func (s *Store) SelectionKeys() []Handle {
	return s.filterSorted(func(k Handle) bool {
		return !s.trash[k].Trashed && s.selection[k].Selected
	})
}

// TrashedKeys returns the trashed strokes in chronological order.
func (s *Store) TrashedKeys() []Handle {
	return s.filterSorted(func(k Handle) bool { return s.trash[k].Trashed })
}

// UntrashedKeys returns every non-trashed stroke in chronological order.
func (s *Store) UntrashedKeys() []Handle {
	return s.filterSorted(func(k Handle) bool { return !s.trash[k].Trashed })
}

// LastStrokeKey returns the most recent non-trashed stroke.
func (s *Store) LastStrokeKey() (Handle, bool) {
	keys := s.UntrashedKeys()
	if len(keys) == 0 {
		return Handle{}, false
	}
	return keys[len(keys)-1], true
}

// RemoveTrashedStrokes drops all trashed strokes for good.
func (s *Store) RemoveTrashedStrokes() []Handle {
	keys := s.TrashedKeys()
	for _, k := range keys {
		s.Remove(k)
	}
	return keys
}
