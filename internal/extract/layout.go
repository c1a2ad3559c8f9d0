package extract

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

// Glyph metrics are not exposed per font, so boxes use fixed fractions of
// the font size above and below the baseline.
const (
	ascent  = 0.8
	descent = 0.2

	rowTolerance        = 2.0
	wordSpaceMultiplier = 0.25
	fallbackWordGap     = 3.0
)

// glyph is a single rune positioned on the page, PDF coordinates (origin
// bottom-left).
type glyph struct {
	r    rune
	x, y float64
	w    float64
	size float64
	font string
}

// explode splits text runs into per-rune glyphs, spreading the run's width
// evenly.
func explode(texts []pdf.Text) []glyph {
	out := make([]glyph, 0, len(texts))
	for _, t := range texts {
		n := utf8.RuneCountInString(t.S)
		if n == 0 {
			continue
		}
		w := t.W / float64(n)
		k := 0
		for _, r := range t.S {
			out = append(out, glyph{r: r, x: t.X + float64(k)*w, y: t.Y, w: w, size: t.FontSize, font: t.Font})
			k++
		}
	}
	return out
}

// groupRows buckets glyphs whose baselines are within rowTolerance of each
// other, top row first.
func groupRows(gs []glyph) [][]glyph {
	type bucket struct {
		yMin, yMax float64
		gs         []glyph
	}
	var buckets []bucket
	for _, g := range gs {
		found := false
		for i := range buckets {
			if g.y >= buckets[i].yMin-rowTolerance && g.y <= buckets[i].yMax+rowTolerance {
				buckets[i].gs = append(buckets[i].gs, g)
				buckets[i].yMin = min(buckets[i].yMin, g.y)
				buckets[i].yMax = max(buckets[i].yMax, g.y)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{yMin: g.y, yMax: g.y, gs: []glyph{g}})
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].yMax > buckets[j].yMax })

	rows := make([][]glyph, len(buckets))
	for i, b := range buckets {
		row := b.gs
		sort.SliceStable(row, func(i, j int) bool { return row[i].x < row[j].x })
		rows[i] = row
	}
	return rows
}

// layoutWords converts the glyphs of a page into words with top-left origin
// boxes, and the page text one row per line.
func layoutWords(texts []pdf.Text, pageHeight float64) ([]entity.Word, string) {
	rows := groupRows(explode(texts))

	var words []entity.Word
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var (
			rowWords []string
			cur      []glyph
		)
		flush := func() {
			if len(cur) == 0 {
				return
			}
			w := toWord(cur, pageHeight)
			words = append(words, w)
			rowWords = append(rowWords, w.Text)
			cur = cur[:0]
		}
		for _, g := range row {
			if unicode.IsSpace(g.r) {
				flush()
				continue
			}
			if len(cur) > 0 {
				prev := cur[len(cur)-1]
				threshold := wordSpaceMultiplier * prev.size
				if prev.size == 0 {
					threshold = fallbackWordGap
				}
				if g.x-(prev.x+prev.w) > threshold {
					flush()
				}
			}
			cur = append(cur, g)
		}
		flush()
		if len(rowWords) > 0 {
			lines = append(lines, strings.Join(rowWords, " "))
		}
	}
	return words, strings.Join(lines, "\n")
}

func toWord(gs []glyph, pageHeight float64) entity.Word {
	var sb strings.Builder
	first := gs[0]
	box := entity.Rect{
		Left:   first.x,
		Top:    pageHeight - (first.y + ascent*first.size),
		Right:  first.x + first.w,
		Bottom: pageHeight - (first.y - descent*first.size),
	}
	size := 0.0
	for _, g := range gs {
		sb.WriteRune(g.r)
		box = box.Union(entity.Rect{
			Left:   g.x,
			Top:    pageHeight - (g.y + ascent*g.size),
			Right:  g.x + g.w,
			Bottom: pageHeight - (g.y - descent*g.size),
		})
		size = max(size, g.size)
	}
	return entity.Word{Text: sb.String(), Box: box, FontName: first.font, FontSize: size}
}
