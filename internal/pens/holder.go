package pens

import (
	"fmt"

	"InkBoard/internal/engine"
	"InkBoard/internal/logging"
)

type Style int

const (
	StyleSelector Style = iota
	StyleTypewriter
)

func (s Style) String() string {
	switch s {
	case StyleSelector:
		return "selector"
	case StyleTypewriter:
		return "typewriter"
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Holder owns one instance of every pen and routes events to the current
// one.
type Holder struct {
	style      Style
	Selector   *Selector
	Typewriter *Typewriter
	progress   Progress
}

func NewHolder() *Holder {
	return &Holder{
		style:      StyleSelector,
		Selector:   NewSelector(),
		Typewriter: NewTypewriter(),
	}
}

func (h *Holder) Current() Pen {
	if h.style == StyleTypewriter {
		return h.Typewriter
	}
	return h.Selector
}

func (h *Holder) CurrentStyle() Style { return h.style }

func (h *Holder) Progress() Progress { return h.progress }

// ChangeStyle cancels what the current pen is doing and switches to style.
func (h *Holder) ChangeStyle(style Style, v *engine.View) engine.Flags {
	if style == h.style {
		return engine.Flags{}
	}
	_, flags := h.Current().HandleEvent(Cancel(), v)
	flags.Merge(h.ForceStyle(style, v))
	return flags
}

// ForceStyle switches without cancelling the current pen.
func (h *Holder) ForceStyle(style Style, v *engine.View) engine.Flags {
	logging.Logger().Debug("pen style", "from", h.style, "to", style)
	h.style = style
	h.progress = ProgressIdle
	flags := h.Current().UpdateState(v)
	flags.RefreshUI = true
	return flags
}

func (h *Holder) HandleEvent(ev Event, v *engine.View) engine.Flags {
	progress, flags := h.Current().HandleEvent(ev, v)
	h.progress = progress
	return flags
}

// UpdateStates resyncs every pen with the store.
func (h *Holder) UpdateStates(v *engine.View) engine.Flags {
	var flags engine.Flags
	flags.Merge(h.Selector.UpdateState(v))
	flags.Merge(h.Typewriter.UpdateState(v))
	return flags
}
