package state

import (
	"InkBoard/internal/strokes"
)

// SnapshotEntry is a persisted stroke with its chronology.
type SnapshotEntry struct {
	Chrono uint32
	Stroke *strokes.Stroke
}

// StoreSnapshot is the persistent part of a store. Trash, selection and
// render caches are not part of it.
type StoreSnapshot struct {
	Strokes       []SnapshotEntry
	ChronoCounter uint32
}

// TakeSnapshot copies the non-trashed strokes in chronological order.
func (s *Store) TakeSnapshot() StoreSnapshot {
	keys := s.UntrashedKeys()
	snap := StoreSnapshot{
		Strokes:       make([]SnapshotEntry, 0, len(keys)),
		ChronoCounter: s.chronoCounter,
	}
	for _, k := range keys {
		snap.Strokes = append(snap.Strokes, SnapshotEntry{
			Chrono: s.chrono[k].T,
			Stroke: s.strokes[k].stroke.Clone(),
		})
	}
	return snap
}

// ImportSnapshot replaces the store content with snap and starts a fresh
// history. Missing or duplicate chronology values are reassigned above the
// highest one.
func (s *Store) ImportSnapshot(snap StoreSnapshot) []Handle {
	s.Clear()
	keys := make([]Handle, 0, len(snap.Strokes))
	seen := make(map[uint32]bool, len(snap.Strokes))
	top := snap.ChronoCounter
	for _, e := range snap.Strokes {
		if e.Stroke != nil {
			top = max(top, e.Chrono)
		}
	}
	s.chronoCounter = top
	highest := uint32(0)
	for _, e := range snap.Strokes {
		if e.Stroke == nil {
			continue
		}
		h := s.Insert(e.Stroke)
		if e.Chrono > 0 && !seen[e.Chrono] {
			seen[e.Chrono] = true
			s.chrono[h] = ChronoComponent{T: e.Chrono}
		}
		highest = max(highest, s.chrono[h].T)
		keys = append(keys, h)
	}
	s.chronoCounter = max(highest, snap.ChronoCounter)
	s.history.reset(s.snapshot())
	s.epoch++
	s.checkInvariants()
	return keys
}
