package extract

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/layoutcheck/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// Grouping controls how glyphs are merged into lines and lines into blocks.
type Grouping struct {
	RowTolerance float64 // Baseline tolerance for glyphs on the same row.
	ColumnGap    float64 // Horizontal gap that splits a row into separate lines.
	BlockGap     float64 // Vertical gap, in line heights, that starts a new block.
	WordSpace    float64 // Gap, in font sizes, that inserts a space.
}

// DefaultGrouping returns sensible defaults for form-like documents.
func DefaultGrouping() Grouping {
	return Grouping{
		RowTolerance: 2.0,
		ColumnGap:    30.0,
		BlockGap:     0.8,
		WordSpace:    0.25,
	}
}

func (g Grouping) withDefaults() Grouping {
	d := DefaultGrouping()
	if g.RowTolerance <= 0 {
		g.RowTolerance = d.RowTolerance
	}
	if g.ColumnGap <= 0 {
		g.ColumnGap = d.ColumnGap
	}
	if g.BlockGap <= 0 {
		g.BlockGap = d.BlockGap
	}
	if g.WordSpace <= 0 {
		g.WordSpace = d.WordSpace
	}
	return g
}

// glyph is a pdf.Text flipped to a top-left origin.
type glyph struct {
	box      layout.BBox
	baseline float64
	size     float64
	s        string
}

type textLine struct {
	box  layout.BBox
	text string
}

type blockBuilder struct {
	box   layout.BBox
	lines []string
}

// GroupBlocks turns the glyphs of one page into text blocks. pageTop is the
// upper edge of the page's MediaBox, used to flip y so it grows downward.
func GroupBlocks(texts []pdflib.Text, pageTop float64, g Grouping) []layout.TextBlock {
	g = g.withDefaults()

	glyphs := make([]glyph, 0, len(texts))
	var prevX float64 // raw x of the previous glyph
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		base := pageTop - t.Y
		x, w := t.X, t.W
		if w <= 0 {
			// Standard-14 fonts without /Widths decode with zero width, and the
			// decoder then does not advance x between glyphs of one string.
			w = estimateAdvance(t.S, size)
			if n := len(glyphs); n > 0 && glyphs[n-1].baseline == base {
				prev := glyphs[n-1].box
				if adv := t.X - prevX; adv >= 0 && adv < prev.X1-prev.X0 {
					x = prev.X1 + adv
				}
			}
		}
		glyphs = append(glyphs, glyph{
			box:      layout.BBox{X0: x, Y0: base - size, X1: x + w, Y1: base},
			baseline: base,
			size:     size,
			s:        t.S,
		})
		prevX = t.X
	}

	var lines []textLine
	for _, row := range groupRows(glyphs, g.RowTolerance) {
		lines = append(lines, splitRow(row, g)...)
	}

	var builders []*blockBuilder
	for _, ln := range lines {
		b := findBlock(builders, ln, g.BlockGap)
		if b == nil {
			builders = append(builders, &blockBuilder{box: ln.box, lines: []string{ln.text}})
			continue
		}
		b.box = union(b.box, ln.box)
		b.lines = append(b.lines, ln.text)
	}

	blocks := make([]layout.TextBlock, len(builders))
	for i, b := range builders {
		blocks[i] = layout.TextBlock{
			BBox:  b.box,
			Text:  blockText(b.lines),
			Index: i,
		}
	}
	return blocks
}

// groupRows buckets glyphs by baseline and returns rows top to bottom, each
// sorted left to right.
func groupRows(glyphs []glyph, tolerance float64) [][]glyph {
	type bucket struct {
		min, max float64
		glyphs   []glyph
	}
	var buckets []*bucket
	for _, gl := range glyphs {
		var found *bucket
		for _, b := range buckets {
			if gl.baseline >= b.min-tolerance && gl.baseline <= b.max+tolerance {
				found = b
				break
			}
		}
		if found == nil {
			buckets = append(buckets, &bucket{min: gl.baseline, max: gl.baseline, glyphs: []glyph{gl}})
			continue
		}
		found.glyphs = append(found.glyphs, gl)
		found.min = math.Min(found.min, gl.baseline)
		found.max = math.Max(found.max, gl.baseline)
	}

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].max < buckets[j].max })

	rows := make([][]glyph, len(buckets))
	for i, b := range buckets {
		sort.SliceStable(b.glyphs, func(x, y int) bool { return b.glyphs[x].box.X0 < b.glyphs[y].box.X0 })
		rows[i] = b.glyphs
	}
	return rows
}

// splitRow cuts a row at wide horizontal gaps and assembles each piece's text.
func splitRow(row []glyph, g Grouping) []textLine {
	var out []textLine
	var sb strings.Builder
	var cur *textLine

	flush := func() {
		if cur == nil {
			return
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			cur.text = text
			out = append(out, *cur)
		}
		sb.Reset()
		cur = nil
	}

	for _, gl := range row {
		if cur != nil {
			gap := gl.box.X0 - cur.box.X1
			if gap > g.ColumnGap {
				flush()
			} else if gap > g.WordSpace*gl.size && !endsWithSpace(sb.String()) && gl.s != " " {
				sb.WriteByte(' ')
			}
		}
		if cur == nil {
			cur = &textLine{box: gl.box}
		} else {
			cur.box = union(cur.box, gl.box)
		}
		sb.WriteString(gl.s)
	}
	flush()
	return out
}

// findBlock returns the most recent block that ln continues: horizontally
// overlapping and close enough below it.
func findBlock(builders []*blockBuilder, ln textLine, gapFactor float64) *blockBuilder {
	height := ln.box.Y1 - ln.box.Y0
	for i := len(builders) - 1; i >= 0; i-- {
		b := builders[i]
		overlaps := ln.box.X0 < b.box.X1 && ln.box.X1 > b.box.X0
		gap := ln.box.Y0 - b.box.Y1
		if overlaps && ln.box.Y0 >= b.box.Y0 && gap <= gapFactor*height {
			return b
		}
	}
	return nil
}

// estimateAdvance approximates the width of s at the given font size, half an
// em per rune.
func estimateAdvance(s string, size float64) float64 {
	return 0.5 * size * float64(utf8.RuneCountInString(s))
}

func union(a, b layout.BBox) layout.BBox {
	return layout.BBox{
		X0: math.Min(a.X0, b.X0),
		Y0: math.Min(a.Y0, b.Y0),
		X1: math.Max(a.X1, b.X1),
		Y1: math.Max(a.Y1, b.Y1),
	}
}

func endsWithSpace(s string) bool {
	return s == "" || strings.HasSuffix(s, " ")
}

// blockText joins lines the way the parser expects them. Decoders may emit
// decomposed accents, so text is normalized to NFC for stable keys.
func blockText(lines []string) string {
	return norm.NFC.String(strings.Join(lines, "\n") + "\n")
}
