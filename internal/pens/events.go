// Package pens turns pointer and keyboard events into store edits. Each
// pen is a state machine driven through HandleEvent with a borrowed
// engine.View.
package pens

import (
	"fmt"

	"InkBoard/internal/engine"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/gogpu/gg"
)

type EventKind int

const (
	// EventDown is sent on press and for every move while pressed.
	EventDown EventKind = iota
	EventUp
	// EventProximity is a move while not pressed.
	EventProximity
	EventKeyPressed
	// EventText commits a whole string, e.g. from an input method.
	EventText
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventDown:
		return "down"
	case EventUp:
		return "up"
	case EventProximity:
		return "proximity"
	case EventKeyPressed:
		return "key"
	case EventText:
		return "text"
	case EventCancel:
		return "cancel"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one input event in document coordinates. Key events carry
// either a fyne key name or, for printable keys, the typed rune.
type Event struct {
	Kind      EventKind
	Pos       gg.Point
	Pressure  float64
	Modifiers fyne.KeyModifier
	Key       fyne.KeyName
	Rune      rune
	Text      string
}

func Down(pos gg.Point, mods fyne.KeyModifier) Event {
	return Event{Kind: EventDown, Pos: pos, Pressure: 1, Modifiers: mods}
}

func Up(pos gg.Point, mods fyne.KeyModifier) Event {
	return Event{Kind: EventUp, Pos: pos, Modifiers: mods}
}

func Proximity(pos gg.Point, mods fyne.KeyModifier) Event {
	return Event{Kind: EventProximity, Pos: pos, Modifiers: mods}
}

func Key(name fyne.KeyName, mods fyne.KeyModifier) Event {
	return Event{Kind: EventKeyPressed, Key: name, Modifiers: mods}
}

func Rune(r rune, mods fyne.KeyModifier) Event {
	return Event{Kind: EventKeyPressed, Rune: r, Modifiers: mods}
}

func Text(s string) Event {
	return Event{Kind: EventText, Text: s}
}

func Cancel() Event {
	return Event{Kind: EventCancel}
}

func (e Event) Shift() bool {
	return e.Modifiers&fyne.KeyModifierShift != 0
}

// Ctrl reports the shortcut modifier, Control or Super.
func (e Event) Ctrl() bool {
	return e.Modifiers&(fyne.KeyModifierControl|fyne.KeyModifierSuper) != 0
}

// Is reports whether a key event is the letter c, typed or named.
func (e Event) Is(c rune) bool {
	if e.Rune != 0 {
		return e.Rune == c || e.Rune == c-'a'+'A'
	}
	return len(e.Key) == 1 && (rune(e.Key[0]) == c || rune(e.Key[0]) == c-'a'+'A')
}

func isModifierKey(k fyne.KeyName) bool {
	switch k {
	case desktop.KeyShiftLeft, desktop.KeyShiftRight,
		desktop.KeyControlLeft, desktop.KeyControlRight,
		desktop.KeyAltLeft, desktop.KeyAltRight,
		desktop.KeySuperLeft, desktop.KeySuperRight:
		return true
	}
	return false
}

// Progress reports where a pen stands after an event.
type Progress int

const (
	ProgressIdle Progress = iota
	ProgressInProgress
	ProgressFinished
)

func (p Progress) String() string {
	switch p {
	case ProgressIdle:
		return "idle"
	case ProgressInProgress:
		return "in progress"
	case ProgressFinished:
		return "finished"
	}
	return "unknown"
}

// Pen is implemented by every pen state machine.
type Pen interface {
	Style() Style
	HandleEvent(ev Event, v *engine.View) (Progress, engine.Flags)
	// UpdateState resyncs the pen with the store, e.g. after undo.
	UpdateState(v *engine.View) engine.Flags
}
