package strokes

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Cursor positions are byte offsets into RichText.Text that always sit on
// a grapheme boundary.

func (t *RichText) bounds() []int {
	return graphemeBounds(t.Text, 0)
}

// Snap moves cursor back to the closest grapheme boundary.
func (t *RichText) Snap(cursor int) int {
	if cursor <= 0 {
		return 0
	}
	if cursor >= len(t.Text) {
		return len(t.Text)
	}
	prev := 0
	for _, b := range t.bounds() {
		if b > cursor {
			break
		}
		prev = b
	}
	return prev
}

// PrevGrapheme returns the boundary before cursor.
func (t *RichText) PrevGrapheme(cursor int) int {
	prev := 0
	for _, b := range t.bounds() {
		if b >= cursor {
			break
		}
		prev = b
	}
	return prev
}

// NextGrapheme returns the boundary after cursor.
func (t *RichText) NextGrapheme(cursor int) int {
	for _, b := range t.bounds() {
		if b > cursor {
			return b
		}
	}
	return len(t.Text)
}

func (t *RichText) isSpaceAt(from, to int) bool {
	r, _ := utf8.DecodeRuneInString(t.Text[from:to])
	return unicode.IsSpace(r)
}

// PrevWord skips whitespace backwards, then the word before it.
func (t *RichText) PrevWord(cursor int) int {
	b := t.bounds()
	i := len(b) - 1
	for i > 0 && b[i] > cursor {
		i--
	}
	for i > 0 && t.isSpaceAt(b[i-1], b[i]) {
		i--
	}
	for i > 0 && !t.isSpaceAt(b[i-1], b[i]) {
		i--
	}
	return b[i]
}

// NextWord skips whitespace forwards, then the word after it.
func (t *RichText) NextWord(cursor int) int {
	b := t.bounds()
	i := 0
	for i < len(b)-1 && b[i] < cursor {
		i++
	}
	for i < len(b)-1 && t.isSpaceAt(b[i], b[i+1]) {
		i++
	}
	for i < len(b)-1 && !t.isSpaceAt(b[i], b[i+1]) {
		i++
	}
	return b[i]
}

// LineStart returns the start of the laid out line holding cursor.
func (t *RichText) LineStart(cursor int) int {
	lines := t.lines()
	li, _ := t.lineOf(lines, cursor)
	return lines[li].start
}

// LineEnd returns the end of the laid out line holding cursor.
func (t *RichText) LineEnd(cursor int) int {
	lines := t.lines()
	li, _ := t.lineOf(lines, cursor)
	return lines[li].end
}

// LineUp keeps the column on the previous line, or goes to the text start.
func (t *RichText) LineUp(cursor int) int {
	lines := t.lines()
	li, col := t.lineOf(lines, cursor)
	if li == 0 {
		return 0
	}
	l := lines[li-1]
	return l.breaks[min(col, l.cols())]
}

// LineDown keeps the column on the next line, or goes to the text end.
func (t *RichText) LineDown(cursor int) int {
	lines := t.lines()
	li, col := t.lineOf(lines, cursor)
	if li == len(lines)-1 {
		return len(t.Text)
	}
	l := lines[li+1]
	return l.breaks[min(col, l.cols())]
}

// Insert puts s at cursor in NFC form and returns the first boundary at or
// after the inserted text. That boundary lies further on when s joins the
// grapheme following it.
func (t *RichText) Insert(cursor int, s string) int {
	cursor = t.Snap(cursor)
	s = norm.NFC.String(normalizeNewlines(s))
	t.Text = t.Text[:cursor] + s + t.Text[cursor:]
	end := cursor + len(s)
	for _, b := range t.bounds() {
		if b >= end {
			return b
		}
	}
	return len(t.Text)
}

// Remove deletes the range between a and b and returns the new cursor.
func (t *RichText) Remove(a, b int) int {
	a, b = t.Snap(min(a, b)), t.Snap(max(a, b))
	t.Text = t.Text[:a] + t.Text[b:]
	return a
}

// Replace swaps the range between a and b for s.
func (t *RichText) Replace(a, b int, s string) int {
	return t.Insert(t.Remove(a, b), s)
}

// Slice returns the text between two cursors in either order.
func (t *RichText) Slice(a, b int) string {
	a, b = t.Snap(min(a, b)), t.Snap(max(a, b))
	return t.Text[a:b]
}
