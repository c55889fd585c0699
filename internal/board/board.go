// Package board owns a stroke store together with its document, camera,
// pens and render workers, and serializes every access to them.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"InkBoard/internal/codec"
	"InkBoard/internal/config"
	"InkBoard/internal/engine"
	"InkBoard/internal/logging"
	"InkBoard/internal/pens"
	"InkBoard/internal/render"
	"InkBoard/internal/state"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// SetLogger configures logging for the board and everything it drives.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Board is the single writer of a store. Methods are safe for concurrent
// use; render results are applied by Run.
type Board struct {
	mu     sync.Mutex
	id     uuid.UUID
	store  *state.Store
	doc    engine.Document
	camera engine.Camera
	pens   config.Pens
	holder *pens.Holder
	tasks  *state.TaskQueue
	pool   *render.Pool

	// OnFlags is called outside the lock after every change.
	OnFlags func(engine.Flags)
}

func New(cfg config.Config) *Board {
	b := &Board{
		id:     uuid.New(),
		store:  state.NewStore(),
		doc:    engine.NewDocument(),
		camera: engine.NewCamera(),
		pens:   cfg.Pens,
		holder: pens.NewHolder(),
		tasks:  state.NewTaskQueue(),
		pool:   render.NewPool(cfg.Render.Workers),
	}
	b.store.SetHistoryMaxLen(cfg.History.MaxLen)
	if cfg.Render.ImageScale > 0 {
		b.camera.ImageScale = cfg.Render.ImageScale
	}
	if l, err := engine.ParseLayout(cfg.Document.Layout); err == nil {
		b.doc.Layout = l
	}
	if cfg.Document.FormatWidth > 0 && cfg.Document.FormatHeight > 0 {
		b.doc.Format = engine.Format{Width: cfg.Document.FormatWidth, Height: cfg.Document.FormatHeight}
		b.doc.Width, b.doc.Height = b.doc.Format.Width, b.doc.Format.Height
	}
	return b
}

func (b *Board) ID() uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

func (b *Board) view() *engine.View {
	return &engine.View{
		Store:  b.store,
		Doc:    &b.doc,
		Camera: &b.camera,
		Pens:   &b.pens,
		Tasks:  b.tasks,
		Pool:   b.pool,
	}
}

// Update runs fn with exclusive access to the board and reports its flags.
func (b *Board) Update(fn func(v *engine.View, h *pens.Holder) engine.Flags) engine.Flags {
	b.mu.Lock()
	flags := fn(b.view(), b.holder)
	b.mu.Unlock()
	b.notify(flags)
	return flags
}

// Read runs fn with exclusive access for inspection.
func (b *Board) Read(fn func(v *engine.View, h *pens.Holder)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b.view(), b.holder)
}

func (b *Board) notify(flags engine.Flags) {
	if flags.Any() && b.OnFlags != nil {
		b.OnFlags(flags)
	}
}

// Run applies render results until ctx is done or Close is called.
func (b *Board) Run(ctx context.Context) error {
	for {
		t, err := b.tasks.Recv(ctx)
		if errors.Is(err, state.ErrQueueClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		b.mu.Lock()
		quit := b.store.ProcessReceivedTask(t)
		b.mu.Unlock()
		if quit {
			b.notify(engine.Flags{Quit: true})
			return nil
		}
		b.notify(engine.Flags{Redraw: true})
	}
}

func (b *Board) HandleEvent(ev pens.Event) engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		return h.HandleEvent(ev, v)
	})
}

func (b *Board) ChangePenStyle(style pens.Style) engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		return h.ChangeStyle(style, v)
	})
}

func (b *Board) PenStyle() pens.Style {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.holder.CurrentStyle()
}

// Pens returns a copy of the current pen settings.
func (b *Board) Pens() config.Pens {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pens
}

func (b *Board) SetSelectorStyle(style config.SelectorStyle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pens.Selector.Style = style
}

func (b *Board) Undo() engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		return b.restore(v, h, v.Store.Undo)
	})
}

func (b *Board) Redo() engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		return b.restore(v, h, v.Store.Redo)
	})
}

// restore steps through history. Pens other than the selector are
// cancelled first; the selector takes over when strokes remain selected.
func (b *Board) restore(v *engine.View, h *pens.Holder, step func() bool) engine.Flags {
	var flags engine.Flags
	if h.CurrentStyle() != pens.StyleSelector {
		flags.Merge(h.HandleEvent(pens.Cancel(), v))
	}
	if !step() {
		return flags
	}
	if len(v.Store.SelectionKeys()) > 0 && h.CurrentStyle() != pens.StyleSelector {
		flags.Merge(h.ForceStyle(pens.StyleSelector, v))
	}
	flags.Merge(v.ResizeAutoexpand())
	flags.Merge(h.UpdateStates(v))
	v.RegenerateViewport(false)
	flags.Redraw = true
	flags.HistoryChanged = true
	flags.ContentChanged = true
	return flags
}

func (b *Board) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.CanUndo()
}

func (b *Board) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.CanRedo()
}

// Resize sets the surface size in pixels.
func (b *Board) Resize(size gg.Point) engine.Flags {
	return b.Update(func(v *engine.View, _ *pens.Holder) engine.Flags {
		v.Camera.Size = size
		return b.cameraChanged(v, false)
	})
}

// Pan moves the view by delta surface pixels.
func (b *Board) Pan(delta gg.Point) engine.Flags {
	return b.Update(func(v *engine.View, _ *pens.Holder) engine.Flags {
		v.Camera.Pan(delta)
		return b.cameraChanged(v, false)
	})
}

// ZoomAt zooms keeping the surface point anchor in place.
func (b *Board) ZoomAt(zoom float64, anchor gg.Point) engine.Flags {
	return b.Update(func(v *engine.View, _ *pens.Holder) engine.Flags {
		old := v.Camera.RenderScale()
		v.Camera.ZoomAt(zoom, anchor)
		// images at the old scale are kept until replaced
		return b.cameraChanged(v, v.Camera.RenderScale() != old)
	})
}

func (b *Board) cameraChanged(v *engine.View, rescaled bool) engine.Flags {
	flags := v.ResizeAutoexpand()
	v.RegenerateViewport(rescaled)
	flags.Redraw = true
	return flags
}

// Camera returns a copy of the camera.
func (b *Board) Camera() engine.Camera {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.camera
}

func (b *Board) Document() engine.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

// Encoded returns the persisted form of the board.
func (b *Board) Encoded() codec.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return codec.New(b.id, b.doc, b.store.TakeSnapshot())
}

func (b *Board) Save(w io.Writer) error {
	if err := codec.Encode(w, b.Encoded()); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	logging.Logger().Info("board saved", "id", b.ID())
	return nil
}

// Load replaces the board content. Pens are cancelled and history starts
// over.
func (b *Board) Load(r io.Reader) error {
	d, err := codec.Decode(r)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	b.Import(d)
	return nil
}

// Import replaces the board content with d.
func (b *Board) Import(d codec.Document) {
	b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		flags := h.HandleEvent(pens.Cancel(), v)
		b.id = d.ID
		b.doc = d.Document
		keys := v.Store.ImportSnapshot(d.Snapshot())
		logging.Logger().Info("board loaded", "id", d.ID, "strokes", len(keys))
		flags.Merge(v.ResizeAutoexpand())
		flags.Merge(h.UpdateStates(v))
		v.RegenerateViewport(true)
		flags.Merge(engine.Flags{Redraw: true, HistoryChanged: true, ContentChanged: true, RefreshUI: true})
		return flags
	})
}

// Clear trashes every stroke as one undo step.
func (b *Board) Clear() engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		flags := h.HandleEvent(pens.Cancel(), v)
		v.Store.SetTrashed(v.Store.UntrashedKeys(), true)
		flags.Merge(v.Record())
		flags.Merge(h.UpdateStates(v))
		flags.Redraw = true
		flags.ContentChanged = true
		return flags
	})
}

// Close stops Run and the render workers.
func (b *Board) Close() {
	if err := b.tasks.Send(state.Task{Kind: state.TaskQuit}); err != nil {
		logging.Logger().Debug("board already closed", "err", err)
	}
	b.pool.Close()
	b.tasks.Close()
}
