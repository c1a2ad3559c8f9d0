// Package spatial finds the value printed next to a label on a page using
// word geometry rather than text order.
package spatial

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/fuzzy"
)

// Direction says where the value sits relative to its label.
type Direction string

const (
	Right Direction = "right"
	Below Direction = "below"
)

// RegionRecognizer OCRs a rectangle of a rendered page.
type RegionRecognizer interface {
	RecognizeRegion(ctx context.Context, docPath string, page entity.Page, r entity.Rect) (string, error)
}

// Query describes one lookup.
type Query struct {
	Keywords   []string
	Direction  Direction
	XTolerance float64
	YTolerance float64
	// ZoneOCR allows falling back to OCR of the area right of an anchor
	// that has no text-layer value.
	ZoneOCR bool
}

// Locator reads Word geometry only and is safe for concurrent use.
type Locator struct {
	tuning common.SpatialTuning
	stop   map[string]struct{}
	ocr    RegionRecognizer
	logger *slog.Logger
}

// NewLocator creates a locator. ocr may be nil, which disables zone OCR.
func NewLocator(logger *slog.Logger, tuning common.SpatialTuning, ocr RegionRecognizer) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	stop := make(map[string]struct{}, len(tuning.StopTerms))
	for _, s := range tuning.StopTerms {
		stop[strings.ToLower(s)] = struct{}{}
	}
	return &Locator{tuning: tuning, stop: stop, ocr: ocr, logger: logger}
}

// anchor is a matched label: the covering box and the indices of its words.
type anchor struct {
	box   entity.Rect
	first int
	last  int
}

func (a anchor) contains(i int) bool { return i >= a.first && i <= a.last }

// Locate scans pages in order and returns the first value found next to any
// of the keyword phrases.
func (l *Locator) Locate(ctx context.Context, doc entity.Document, q Query) (string, bool) {
	for _, page := range doc.Pages {
		if len(page.Words) == 0 {
			continue
		}
		for _, kw := range q.Keywords {
			tokens := strings.Fields(strings.ToLower(kw))
			if len(tokens) == 0 {
				continue
			}
			for i := range page.Words {
				if ctx.Err() != nil {
					return "", false
				}
				a, ok := l.matchAnchor(page.Words, i, tokens)
				if !ok {
					continue
				}

				var found []entity.Word
				switch q.Direction {
				case Right:
					found = l.collectRight(page.Words, a, q.XTolerance)
				case Below:
					found = l.collectBelow(page.Words, a, q.YTolerance)
				}

				if len(found) > 0 {
					if value := l.joinValue(found); len(value) > l.tuning.MinValueLength {
						l.logger.Debug("spatial value found",
							"keyword", kw, "direction", q.Direction, "page", page.Number, "value", value)
						return value, true
					}
					continue
				}

				if q.Direction == Right && q.ZoneOCR && l.ocr != nil {
					if value, ok := l.zoneOCR(ctx, doc.Path, page, a); ok {
						return value, true
					}
				}
			}
		}
	}
	return "", false
}

func normalizeLabel(s string) string {
	return strings.TrimSpace(strings.Trim(strings.ToLower(s), ":"))
}

// matchAnchor checks whether the phrase tokens fuzzily match the words
// starting at index i.
func (l *Locator) matchAnchor(words []entity.Word, i int, tokens []string) (anchor, bool) {
	if i+len(tokens) > len(words) {
		return anchor{}, false
	}
	for k, tok := range tokens {
		w := normalizeLabel(words[i+k].Text)
		if w == "" || fuzzy.Ratio(w, strings.Trim(tok, ":")) < l.tuning.AnchorSimilarity {
			return anchor{}, false
		}
	}
	a := anchor{box: words[i].Box, first: i, last: i + len(tokens) - 1}
	for k := i + 1; k <= a.last; k++ {
		a.box = a.box.Union(words[k].Box)
	}
	return a, true
}

func (l *Locator) collectRight(words []entity.Word, a anchor, xTol float64) []entity.Word {
	var line []entity.Word
	for i, w := range words {
		if a.contains(i) {
			continue
		}
		mid := w.Box.MidY()
		if mid < a.box.Top-l.tuning.BandPad || mid > a.box.Bottom+l.tuning.BandPad {
			continue
		}
		if w.Box.Left > a.box.Right && w.Box.Left-a.box.Right < xTol {
			line = append(line, w)
		}
	}
	if len(line) == 0 {
		return nil
	}

	valueLeft, lineBottom := line[0].Box.Left, line[0].Box.Bottom
	for _, w := range line[1:] {
		valueLeft = min(valueLeft, w.Box.Left)
		lineBottom = max(lineBottom, w.Box.Bottom)
	}

	found := line
	for i, w := range words {
		if a.contains(i) || containsWord(line, w) {
			continue
		}
		if w.Box.Top > lineBottom-l.tuning.WrapTopSlack && w.Box.Top < lineBottom+l.tuning.WrapGap &&
			w.Box.Left > valueLeft-l.tuning.WrapLeftSlack {
			found = append(found, w)
		}
	}
	return found
}

func (l *Locator) collectBelow(words []entity.Word, a anchor, yTol float64) []entity.Word {
	var found []entity.Word
	for i, w := range words {
		if a.contains(i) {
			continue
		}
		if w.Box.Top <= a.box.Bottom-l.tuning.BelowTopSlack || w.Box.Top-a.box.Bottom >= yTol {
			continue
		}
		if w.Box.Left >= a.box.Left-l.tuning.BelowLeftSlack && w.Box.Left <= a.box.Right+l.tuning.BelowRightReach {
			found = append(found, w)
		}
	}
	return found
}

// joinValue orders words by reading position and joins them up to the
// first word that starts another label or is obviously not part of a name.
func (l *Locator) joinValue(found []entity.Word) string {
	sorted := make([]entity.Word, len(found))
	copy(sorted, found)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Box.Top != sorted[j].Box.Top {
			return sorted[i].Box.Top < sorted[j].Box.Top
		}
		return sorted[i].Box.Left < sorted[j].Box.Left
	})

	var parts []string
	for _, w := range sorted {
		text := strings.TrimSpace(w.Text)
		if l.isStop(text) {
			break
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

func (l *Locator) isStop(text string) bool {
	if _, ok := l.stop[normalizeLabel(text)]; ok {
		return true
	}
	// Symbol-only tokens end the value unless made of punctuation that
	// appears inside names ("Smith - Jones", "A & B").
	hasAlnum, foreign := false, false
	for _, r := range text {
		if unicode.Is(unicode.Sc, r) {
			return true
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			hasAlnum = true
		case !strings.ContainsRune(namePunct, r):
			foreign = true
		}
	}
	return !hasAlnum && foreign
}

const namePunct = "-&.,'"


func (l *Locator) zoneOCR(ctx context.Context, docPath string, page entity.Page, a anchor) (string, bool) {
	zone := entity.Rect{
		Left:   a.box.Right,
		Top:    a.box.Top - l.tuning.ZonePad,
		Right:  a.box.Right + l.tuning.ZoneWidth,
		Bottom: a.box.Bottom + l.tuning.ZonePad,
	}.Clip(page.Width, page.Height)
	if zone.Empty() {
		return "", false
	}

	text, err := l.ocr.RecognizeRegion(ctx, docPath, page, zone)
	if err != nil {
		l.logger.Warn("zone ocr failed", "path", docPath, "page", page.Number, "error", err)
		return "", false
	}
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	if len(text) <= l.tuning.MinValueLength || len(fields) == 0 {
		return "", false
	}
	if _, stop := l.stop[normalizeLabel(fields[0])]; stop {
		return "", false
	}
	l.logger.Info("zone ocr recovered value", "path", docPath, "page", page.Number, "value", text)
	return text, true
}

func containsWord(ws []entity.Word, w entity.Word) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}
