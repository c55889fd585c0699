package engine

// Flags tell the host what to refresh after an engine call. Calls return
// them; the host merges and acts on them.
type Flags struct {
	Redraw           bool
	Resize           bool
	HistoryChanged   bool
	SelectionChanged bool
	ContentChanged   bool
	RefreshUI        bool
	Quit             bool
}

func (f *Flags) Merge(o Flags) {
	f.Redraw = f.Redraw || o.Redraw
	f.Resize = f.Resize || o.Resize
	f.HistoryChanged = f.HistoryChanged || o.HistoryChanged
	f.SelectionChanged = f.SelectionChanged || o.SelectionChanged
	f.ContentChanged = f.ContentChanged || o.ContentChanged
	f.RefreshUI = f.RefreshUI || o.RefreshUI
	f.Quit = f.Quit || o.Quit
}

// Any reports whether any flag is set.
func (f Flags) Any() bool {
	return f != Flags{}
}
