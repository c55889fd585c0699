package state

import "fmt"

// Debug enables consistency checks that panic when the component maps get
// out of sync with the stroke map.
var Debug = false

func (s *Store) checkInvariants() {
	if !Debug {
		return
	}
	if err := s.verify(); err != nil {
		panic(err)
	}
}

func (s *Store) verify() error {
	n := len(s.strokes)
	if len(s.trash) != n || len(s.selection) != n || len(s.chrono) != n || len(s.render) != n {
		return fmt.Errorf("state: component maps out of sync: strokes=%d trash=%d selection=%d chrono=%d render=%d",
			n, len(s.trash), len(s.selection), len(s.chrono), len(s.render))
	}
	seen := make(map[uint32]Handle, n)
	for k := range s.strokes {
		if _, ok := s.trash[k]; !ok {
			return fmt.Errorf("state: stroke %v has no trash component", k)
		}
		if _, ok := s.selection[k]; !ok {
			return fmt.Errorf("state: stroke %v has no selection component", k)
		}
		if s.render[k] == nil {
			return fmt.Errorf("state: stroke %v has no render component", k)
		}
		c, ok := s.chrono[k]
		if !ok {
			return fmt.Errorf("state: stroke %v has no chrono component", k)
		}
		if other, dup := seen[c.T]; dup {
			return fmt.Errorf("state: strokes %v and %v share chrono %d", k, other, c.T)
		}
		if c.T > s.chronoCounter {
			return fmt.Errorf("state: stroke %v chrono %d above counter %d", k, c.T, s.chronoCounter)
		}
		seen[c.T] = k
	}
	return nil
}
