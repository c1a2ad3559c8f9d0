package ocr

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

// tsvResult is a parsed tesseract TSV report.
type tsvResult struct {
	Words      []entity.Word
	Text       string
	Confidence float32 // mean word confidence in 0..1, 0 when unknown
}

const (
	tsvLevel = iota
	tsvPage
	tsvBlock
	tsvPar
	tsvLine
	tsvWord
	tsvLeft
	tsvTop
	tsvWidth
	tsvHeight
	tsvConf
	tsvText
	tsvColumns
)

const tsvWordLevel = "5"

// parseTSV reads word rows from tesseract TSV output. Pixel coordinates are
// multiplied by scale; text is rebuilt one line per tesseract line.
func parseTSV(out []byte, scale float64) tsvResult {
	var (
		res      tsvResult
		b        strings.Builder
		lastLine string
		sum, n   float64
	)
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || ln == "" {
			continue
		} // skip header
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		if len(cols) < tsvColumns || cols[tsvLevel] != tsvWordLevel {
			continue
		}
		text := strings.TrimSpace(strings.Join(cols[tsvText:], "\t"))
		if text == "" {
			continue
		}

		left, err1 := strconv.ParseFloat(cols[tsvLeft], 64)
		top, err2 := strconv.ParseFloat(cols[tsvTop], 64)
		width, err3 := strconv.ParseFloat(cols[tsvWidth], 64)
		height, err4 := strconv.ParseFloat(cols[tsvHeight], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}

		res.Words = append(res.Words, entity.Word{
			Text: text,
			Box: entity.Rect{
				Left:   left * scale,
				Top:    top * scale,
				Right:  (left + width) * scale,
				Bottom: (top + height) * scale,
			},
			FontSize: height * scale,
		})

		lineKey := cols[tsvPage] + "/" + cols[tsvBlock] + "/" + cols[tsvPar] + "/" + cols[tsvLine]
		switch {
		case b.Len() == 0:
		case lineKey != lastLine:
			b.WriteByte('\n')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(text)
		lastLine = lineKey

		if c, err := strconv.ParseFloat(cols[tsvConf], 64); err == nil && c >= 0 {
			sum += c
			n++
		}
	}
	res.Text = b.String()
	if n > 0 {
		res.Confidence = float32(sum / n / 100)
	}
	return res
}
