package state

import "sort"

// ChronoComponent orders strokes. Higher values are drawn on top and count
// as more recently changed.
type ChronoComponent struct {
	T uint32
}

func (s *Store) nextChrono() uint32 {
	s.chronoCounter++
	return s.chronoCounter
}

// ChronoCounter returns the last issued chronology value.
func (s *Store) ChronoCounter() uint32 {
	return s.chronoCounter
}

// sortChrono orders keys by ascending chronology in place.
func (s *Store) sortChrono(keys []Handle) {
	sort.Slice(keys, func(i, j int) bool {
		return s.chrono[keys[i]].T < s.chrono[keys[j]].T
	})
}

// UpdateChronoToLast moves keys to the top of the drawing order, keeping
// their relative order.
func (s *Store) UpdateChronoToLast(keys []Handle) {
	live := s.existing(keys)
	s.sortChrono(live)
	for _, k := range live {
		s.chrono[k] = ChronoComponent{T: s.nextChrono()}
	}
}
