package strokes

import (
	"image"
	"math"
	"strings"
	"unicode"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"

	"github.com/gogpu/gg"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var textFace = basicfont.Face7x13

// TextStyle is the style of a whole RichText. MaxWidth <= 0 disables
// wrapping.
type TextStyle struct {
	FontSize float64 `json:"font_size"`
	Color    Color   `json:"color"`
	MaxWidth float64 `json:"max_width,omitempty"`
}

func DefaultTextStyle() TextStyle {
	return TextStyle{FontSize: 26, Color: Black}
}

// RichText is a block of UTF-8 text laid out in a monospace grid. Local
// coordinates start at the top-left of the first line.
type RichText struct {
	Text      string    `json:"text"`
	Style     TextStyle `json:"style"`
	Transform gg.Matrix `json:"transform"`
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeNewlines turns CRLF and lone CR line breaks into LF so every
// line break is a single byte and a grapheme of its own.
func normalizeNewlines(s string) string {
	return newlines.Replace(s)
}

// NewRichText places text with its top-left corner at pos.
func NewRichText(text string, pos gg.Point, style TextStyle) *Stroke {
	return &Stroke{Kind: KindText, Text: &RichText{
		Text:      normalizeNewlines(text),
		Style:     style,
		Transform: gg.Translate(pos.X, pos.Y),
	}}
}

func (t *RichText) fontScale() float64 {
	if t.Style.FontSize <= 0 {
		return 1
	}
	return t.Style.FontSize / float64(textFace.Height)
}

func (t *RichText) advance() float64 {
	return float64(textFace.Advance) * t.fontScale()
}

func (t *RichText) lineHeight() float64 {
	return float64(textFace.Height) * t.fontScale()
}

// textLine is one laid out line. breaks holds the grapheme boundaries
// from start to end, both included.
type textLine struct {
	start, end int
	breaks     []int
}

func (l textLine) cols() int {
	return len(l.breaks) - 1
}

// graphemeBounds returns the grapheme boundaries of s shifted by off,
// with both ends included.
func graphemeBounds(s string, off int) []int {
	b := []int{off}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		_, to := g.Positions()
		b = append(b, off+to)
	}
	return b
}

func (t *RichText) lines() []textLine {
	maxCols := 0
	if t.Style.MaxWidth > 0 {
		maxCols = max(1, int(math.Floor(t.Style.MaxWidth/t.advance())))
	}
	var out []textLine
	start := 0
	for {
		idx := strings.IndexByte(t.Text[start:], '\n')
		end := len(t.Text)
		if idx >= 0 {
			end = start + idx
		}
		out = append(out, wrap(t.Text, graphemeBounds(t.Text[start:end], start), maxCols)...)
		if idx < 0 {
			return out
		}
		start = end + 1
	}
}

// wrap splits one paragraph into lines of at most maxCols graphemes,
// breaking after the last space when there is one.
func wrap(text string, b []int, maxCols int) []textLine {
	if maxCols <= 0 || len(b)-1 <= maxCols {
		return []textLine{{start: b[0], end: b[len(b)-1], breaks: b}}
	}
	var out []textLine
	i := 0
	for len(b)-1-i > maxCols {
		j := i + maxCols
		for k := j; k > i+1; k-- {
			if text[b[k-1]:b[k]] == " " {
				j = k
				break
			}
		}
		out = append(out, textLine{start: b[i], end: b[j], breaks: b[i : j+1]})
		i = j
	}
	return append(out, textLine{start: b[i], end: b[len(b)-1], breaks: b[i:]})
}

// lineOf returns the line index holding cursor and its column.
func (t *RichText) lineOf(lines []textLine, cursor int) (int, int) {
	li := 0
	for i, l := range lines {
		if l.start <= cursor {
			li = i
		}
	}
	l := lines[li]
	col := 0
	for k, b := range l.breaks {
		if b <= cursor {
			col = k
		}
	}
	return li, col
}

// Size returns the local width and height of the text block.
func (t *RichText) Size() gg.Point {
	lines := t.lines()
	cols := 1
	for _, l := range lines {
		cols = max(cols, l.cols())
	}
	w := math.Max(float64(cols)*t.advance(), t.Style.MaxWidth)
	return gg.Pt(w, float64(len(lines))*t.lineHeight())
}

func (t *RichText) Bounds() gg.Rect {
	size := t.Size()
	return geom.TransformRect(t.Transform, geom.RectXYWH(0, 0, size.X, size.Y))
}

func (t *RichText) Hitboxes() []gg.Rect {
	lh, adv := t.lineHeight(), t.advance()
	var boxes []gg.Rect
	for i, l := range t.lines() {
		w := float64(max(1, l.cols())) * adv
		boxes = append(boxes, geom.TransformRect(t.Transform, geom.RectXYWH(0, float64(i)*lh, w, lh)))
	}
	return boxes
}

// Origin is the document position of the top-left corner of the text.
func (t *RichText) Origin() gg.Point {
	return t.Transform.TransformPoint(gg.Pt(0, 0))
}

// WidthAnchor is the document position of the top edge at the text width.
func (t *RichText) WidthAnchor() gg.Point {
	return t.Transform.TransformPoint(gg.Pt(t.Size().X, 0))
}

// CursorForPos resolves a document position to the nearest grapheme
// boundary.
func (t *RichText) CursorForPos(pos gg.Point) int {
	local := t.Transform.Invert().TransformPoint(pos)
	lines := t.lines()
	li := int(math.Floor(local.Y / t.lineHeight()))
	li = max(0, min(li, len(lines)-1))
	l := lines[li]
	col := int(math.Round(local.X / t.advance()))
	col = max(0, min(col, l.cols()))
	return l.breaks[col]
}

// CursorRect returns the document box of the caret at cursor.
func (t *RichText) CursorRect(cursor int) gg.Rect {
	lines := t.lines()
	li, col := t.lineOf(lines, cursor)
	lh := t.lineHeight()
	return geom.TransformRect(t.Transform,
		geom.RectXYWH(float64(col)*t.advance(), float64(li)*lh, math.Max(1, t.fontScale()), lh))
}

// SelectionRects returns one document box per line covered by [a, b).
func (t *RichText) SelectionRects(a, b int) []gg.Rect {
	a, b = min(a, b), max(a, b)
	lines := t.lines()
	lh, adv := t.lineHeight(), t.advance()
	var out []gg.Rect
	for i, l := range lines {
		if l.end < a || l.start > b {
			continue
		}
		c0, c1 := 0, l.cols()
		for k, br := range l.breaks {
			if br <= a {
				c0 = k
			}
			if br <= b {
				c1 = k
			}
		}
		if c1 <= c0 {
			continue
		}
		out = append(out, geom.TransformRect(t.Transform,
			geom.RectXYWH(float64(c0)*adv, float64(i)*lh, float64(c1-c0)*adv, lh)))
	}
	return out
}

func (t *RichText) Translate(v gg.Point) {
	t.Transform = gg.Translate(v.X, v.Y).Multiply(t.Transform)
}

func (t *RichText) transform(m gg.Matrix) {
	t.Transform = m.Multiply(t.Transform)
}

func (t *RichText) clone() *RichText {
	c := *t
	return &c
}

func (t *RichText) genImages(viewport gg.Rect, scale float64) ([]render.Image, error) {
	if strings.TrimSpace(t.Text) == "" {
		return nil, nil
	}
	target, ok := render.NewTarget(t.Bounds(), viewport, scale)
	if !ok {
		return nil, nil
	}
	lines := t.lines()
	cols := 1
	for _, l := range lines {
		cols = max(cols, l.cols())
	}
	src := image.NewRGBA(image.Rect(0, 0, cols*textFace.Advance, len(lines)*textFace.Height))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(t.Style.Color.NRGBA()),
		Face: textFace,
	}
	for li, l := range lines {
		for k := 0; k < l.cols(); k++ {
			g := t.Text[l.breaks[k]:l.breaks[k+1]]
			if strings.IndexFunc(g, unicode.IsSpace) == 0 {
				continue
			}
			d.Dot = fixed.P(k*textFace.Advance, li*textFace.Height+textFace.Ascent)
			d.DrawString(g)
		}
	}
	s := t.fontScale()
	return []render.Image{drawAffine(target, src, t.Transform.Multiply(gg.Scale(s, s)))}, nil
}
