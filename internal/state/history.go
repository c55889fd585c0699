package state

import "maps"

// DefaultHistoryLen is the default number of kept history entries.
const DefaultHistoryLen = 100

// snapshot is one history entry. Entries are shared with the live store
// until the store writes to them.
type snapshot struct {
	strokes map[Handle]*entry
	chrono  map[Handle]ChronoComponent
	trash   map[Handle]TrashComponent
	counter uint32
}

type history struct {
	entries []*snapshot
	index   int
	maxLen  int
}

func newHistory(maxLen int) history {
	return history{maxLen: max(1, maxLen)}
}

func (h *history) reset(first *snapshot) {
	h.entries = []*snapshot{first}
	h.index = 0
}

func (h *history) current() *snapshot {
	return h.entries[h.index]
}

func (h *history) push(s *snapshot) {
	h.entries = append(h.entries[:h.index+1], s)
	if over := len(h.entries) - h.maxLen; over > 0 {
		h.entries = h.entries[over:]
	}
	h.index = len(h.entries) - 1
}

func (s *Store) snapshot() *snapshot {
	return &snapshot{
		strokes: maps.Clone(s.strokes),
		chrono:  maps.Clone(s.chrono),
		trash:   maps.Clone(s.trash),
		counter: s.chronoCounter,
	}
}

// matches reports whether the live store still equals snap.
func (s *Store) matches(snap *snapshot) bool {
	if s.chronoCounter != snap.counter || len(s.strokes) != len(snap.strokes) {
		return false
	}
	for k, e := range s.strokes {
		if snap.strokes[k] != e {
			return false
		}
	}
	return maps.Equal(s.chrono, snap.chrono) && maps.Equal(s.trash, snap.trash)
}

// SetHistoryMaxLen bounds the number of kept entries, dropping the oldest.
func (s *Store) SetHistoryMaxLen(n int) {
	s.history.maxLen = max(1, n)
	if over := len(s.history.entries) - s.history.maxLen; over > 0 {
		s.history.entries = s.history.entries[over:]
		s.history.index = max(0, s.history.index-over)
	}
}

// Record pushes the current state as a new history entry, discarding any
// redo entries. Nothing is recorded when the state did not change since
// the live entry; the result reports whether an entry was pushed.
func (s *Store) Record() bool {
	if s.matches(s.history.current()) {
		return false
	}
	s.history.push(s.snapshot())
	s.epoch++
	return true
}

// UpdateLatestHistoryEntry replaces the live entry with the current state.
// Used to fold rapid edits into one undo step.
func (s *Store) UpdateLatestHistoryEntry() {
	h := &s.history
	h.entries = h.entries[:h.index+1]
	if h.index == 0 {
		// the first entry is the state undo returns to; keep it
		h.push(s.snapshot())
	} else {
		h.entries[h.index] = s.snapshot()
	}
	s.epoch++
}

func (s *Store) CanUndo() bool {
	return s.history.index > 0
}

func (s *Store) CanRedo() bool {
	return s.history.index < len(s.history.entries)-1
}

// Undo restores the previous entry. Uncommitted changes since the last
// record are discarded.
func (s *Store) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	s.history.index--
	s.restore(s.history.current())
	return true
}

func (s *Store) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	s.history.index++
	s.restore(s.history.current())
	return true
}

// restore replaces strokes, chronology and trash with snap. Selection is
// kept for strokes that survive and are not trashed. Render caches of
// surviving strokes keep their images but are invalidated.
func (s *Store) restore(snap *snapshot) {
	prevSel, prevRender := s.selection, s.render
	s.strokes = maps.Clone(snap.strokes)
	s.chrono = maps.Clone(snap.chrono)
	s.trash = maps.Clone(snap.trash)
	s.chronoCounter = snap.counter
	s.selection = make(map[Handle]SelectionComponent, len(s.strokes))
	s.render = make(map[Handle]*RenderComponent, len(s.strokes))
	for k := range s.strokes {
		s.selection[k] = SelectionComponent{Selected: prevSel[k].Selected && !s.trash[k].Trashed}
		if r, ok := prevRender[k]; ok {
			r.invalidate()
			s.render[k] = r
		} else {
			s.render[k] = newRenderComponent()
		}
	}
	s.epoch++
	s.checkInvariants()
}
