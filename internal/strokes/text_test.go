package strokes

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
)

func newText(s string) *RichText {
	return NewRichText(s, gg.Pt(0, 0), TextStyle{FontSize: 13, Color: Black}).Text
}

func TestCursorStepsOverCombiningSequence(t *testing.T) {
	txt := newText("")
	// no precomposed form exists, so NFC keeps all three runes
	c := txt.Insert(0, "a")
	c = txt.Insert(c, "q\u0323\u0307")
	assert.Equal(t, len(txt.Text), c)

	back := txt.PrevGrapheme(c)
	assert.Equal(t, 1, back)
	assert.Equal(t, 0, txt.PrevGrapheme(back))
	assert.Equal(t, c, txt.NextGrapheme(back))
	assert.Equal(t, 1, txt.Snap(3))
}

func TestInsertNormalizesToNFC(t *testing.T) {
	txt := newText("")
	c := txt.Insert(0, "e\u0301")
	assert.Equal(t, "\u00e9", txt.Text)
	assert.Equal(t, 2, c)
	assert.Equal(t, 0, txt.PrevGrapheme(c))
}

func TestEmojiIsOneGrapheme(t *testing.T) {
	txt := newText("x\U0001F469\u200d\U0001F4BBy")
	end := len(txt.Text) - 1
	assert.Equal(t, 1, txt.PrevGrapheme(end))
	assert.Equal(t, end, txt.NextGrapheme(1))
}

func TestWordMovement(t *testing.T) {
	txt := newText("one two  three")
	assert.Equal(t, 9, txt.PrevWord(len("one two  th")+1))
	assert.Equal(t, 4, txt.PrevWord(7))
	assert.Equal(t, 4, txt.PrevWord(8))
	assert.Equal(t, 0, txt.PrevWord(3))
	assert.Equal(t, 3, txt.NextWord(0))
	assert.Equal(t, 7, txt.NextWord(3))
	assert.Equal(t, len(txt.Text), txt.NextWord(8))
}

func TestLines(t *testing.T) {
	txt := newText("ab\ncde")
	assert.Equal(t, 0, txt.LineStart(1))
	assert.Equal(t, 2, txt.LineEnd(1))
	assert.Equal(t, 3, txt.LineStart(5))
	assert.Equal(t, 6, txt.LineEnd(4))
	assert.Equal(t, 5, txt.LineDown(2))
	assert.Equal(t, 2, txt.LineUp(6))
	assert.Equal(t, 0, txt.LineUp(1))
	assert.Equal(t, 6, txt.LineDown(4))
}

func TestCarriageReturnsBecomeLineFeeds(t *testing.T) {
	txt := newText("a\r\nb")
	assert.Equal(t, "a\nb", txt.Text)
	assert.Equal(t, 1, txt.LineEnd(0))
	assert.Equal(t, txt.LineEnd(0), txt.Snap(txt.LineEnd(0)))
	assert.Equal(t, 3, txt.LineDown(1))
	assert.Equal(t, []int{0, 1, 2, 3}, txt.bounds())

	c := txt.Insert(len(txt.Text), "\rc\r\n")
	assert.Equal(t, "a\nb\nc\n", txt.Text)
	assert.Equal(t, len(txt.Text), c)
	for i := 0; i <= len(txt.Text); i++ {
		assert.Equal(t, txt.Snap(txt.LineEnd(i)), txt.LineEnd(i))
	}
}

func TestInsertReturnsBoundaryWhenJoiningNextGrapheme(t *testing.T) {
	// two regional indicators form a single flag
	txt := newText("\U0001F1FA")
	c := txt.Insert(0, "\U0001F1F8")
	assert.Equal(t, len(txt.Text), c)
	assert.Equal(t, c, txt.Snap(c))
	assert.Equal(t, 0, txt.PrevGrapheme(c))
}

func TestWrapAtMaxWidth(t *testing.T) {
	txt := newText("aaa bbb ccc")
	txt.Style.MaxWidth = 7 * 5
	lines := txt.lines()
	if assert.Len(t, lines, 3) {
		assert.Equal(t, "aaa ", txt.Text[lines[0].start:lines[0].end])
		assert.Equal(t, "bbb ", txt.Text[lines[1].start:lines[1].end])
		assert.Equal(t, "ccc", txt.Text[lines[2].start:lines[2].end])
	}
	assert.InDelta(t, 35, txt.Size().X, 1e-9)
	assert.InDelta(t, 39, txt.Size().Y, 1e-9)
}

func TestCursorForPos(t *testing.T) {
	txt := newText("hello\nworld")
	txt.Translate(gg.Pt(100, 100))
	assert.Equal(t, 0, txt.CursorForPos(gg.Pt(90, 90)))
	assert.Equal(t, 2, txt.CursorForPos(gg.Pt(100+14, 105)))
	assert.Equal(t, 6+3, txt.CursorForPos(gg.Pt(100+20, 100+13+2)))
	assert.Equal(t, len(txt.Text), txt.CursorForPos(gg.Pt(500, 500)))
}

func TestRemoveAndReplace(t *testing.T) {
	txt := newText("hello world")
	c := txt.Remove(11, 5)
	assert.Equal(t, "hello", txt.Text)
	assert.Equal(t, 5, c)
	c = txt.Replace(0, 5, "bye")
	assert.Equal(t, "bye", txt.Text)
	assert.Equal(t, 3, c)
	assert.Equal(t, "ye", txt.Slice(3, 1))
}

func TestSelectionRects(t *testing.T) {
	txt := newText("ab\ncd")
	rects := txt.SelectionRects(1, 4)
	if assert.Len(t, rects, 2) {
		assert.InDelta(t, 7, rects[0].Min.X, 1e-9)
		assert.InDelta(t, 14, rects[0].Max.X, 1e-9)
		assert.InDelta(t, 0, rects[1].Min.X, 1e-9)
		assert.InDelta(t, 7, rects[1].Max.X, 1e-9)
	}
}
