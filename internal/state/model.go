package state

import (
	"fmt"

	"InkBoard/internal/render"
)

// Handle identifies a stroke in a Store. The zero Handle is never issued.
type Handle struct {
	Index uint32
	Gen   uint32
}

func (h Handle) IsZero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	return fmt.Sprintf("%d#%d", h.Index, h.Gen)
}

// arena issues handles. The generation of a slot only grows, so no
// (index, gen) pair is handed out twice.
type arena struct {
	gens []uint32
	free []uint32
}

func (a *arena) alloc() Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.gens[idx]++
		return Handle{Index: idx, Gen: a.gens[idx]}
	}
	a.gens = append(a.gens, 1)
	return Handle{Index: uint32(len(a.gens) - 1), Gen: 1}
}

func (a *arena) release(h Handle) {
	if int(h.Index) < len(a.gens) {
		a.free = append(a.free, h.Index)
	}
}

type TrashComponent struct {
	Trashed bool
}

type SelectionComponent struct {
	Selected bool
}

// RenderState tracks the render cache of one stroke.
type RenderState int

const (
	RenderDirty RenderState = iota
	RenderBusy
	RenderReady
)

func (s RenderState) String() string {
	switch s {
	case RenderDirty:
		return "dirty"
	case RenderBusy:
		return "busy"
	case RenderReady:
		return "ready"
	}
	return "unknown"
}

// RenderComponent holds the generated images of a stroke. Render reports
// whether the stroke is drawn at all. Version grows on every invalidation;
// results of jobs started for an older version leave the cache dirty.
type RenderComponent struct {
	Render  bool
	State   RenderState
	Images  []render.Image
	Version uint64
}

func newRenderComponent() *RenderComponent {
	return &RenderComponent{Render: true, State: RenderDirty}
}

func (r *RenderComponent) invalidate() {
	r.State = RenderDirty
	r.Version++
}
