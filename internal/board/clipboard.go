package board

import (
	"InkBoard/internal/engine"
	"InkBoard/internal/pens"
	"InkBoard/internal/strokes"

	"github.com/gogpu/gg"
)

// Copy returns the text selected in the typewriter.
func (b *Board) Copy() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.holder.CurrentStyle() != pens.StyleTypewriter {
		return "", false
	}
	return b.holder.Typewriter.FetchClipboardContent(b.view())
}

// Cut removes and returns the text selected in the typewriter.
func (b *Board) Cut() (string, engine.Flags) {
	var text string
	flags := b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		if h.CurrentStyle() != pens.StyleTypewriter {
			return engine.Flags{}
		}
		var f engine.Flags
		text, f = h.Typewriter.CutClipboardContent(v)
		return f
	})
	return text, flags
}

// Paste inserts text with the typewriter, switching to it first. A nil pos
// pastes into the edited text or near the top-left of the view.
func (b *Board) Paste(text string, pos *gg.Point) engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		flags := h.ChangeStyle(pens.StyleTypewriter, v)
		flags.Merge(h.Typewriter.InsertText(v, text, pos))
		return flags
	})
}

// ChangeTextStyle edits the style of the current or the next text.
func (b *Board) ChangeTextStyle(fn func(*strokes.TextStyle)) engine.Flags {
	return b.Update(func(v *engine.View, h *pens.Holder) engine.Flags {
		return h.Typewriter.ChangeTextStyle(v, fn)
	})
}
