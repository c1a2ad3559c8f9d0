package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Rect is a box in page coordinates: PDF points, origin at the top-left corner.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width of the box.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height of the box.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// MidY is the vertical midpoint.
func (r Rect) MidY() float64 { return (r.Top + r.Bottom) / 2 }

// Union returns the smallest box covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Clip constrains r to a page of the given size.
func (r Rect) Clip(width, height float64) Rect {
	return Rect{
		Left:   max(0, r.Left),
		Top:    max(0, r.Top),
		Right:  min(width, r.Right),
		Bottom: min(height, r.Bottom),
	}
}

// Empty reports whether the box has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Word is a run of non-space glyphs with its bounding box.
type Word struct {
	Text     string  `json:"text"`
	Box      Rect    `json:"box"`
	FontName string  `json:"font_name,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
}

// Page is one extracted page. OCR is set when the text came from tesseract
// rather than the PDF text layer.
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
	Words  []Word  `json:"words"`
	OCR    bool    `json:"ocr"`
}

// Document is the extraction result for one file.
type Document struct {
	ID       uuid.UUID `json:"id"`
	Path     string    `json:"path"`
	Pages    []Page    `json:"pages"`
	FullText string    `json:"full_text"`
}

// NewDocument assembles a document and its full text from extracted pages.
func NewDocument(path string, pages []Page) Document {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString("\n")
		sb.WriteString(p.Text)
	}
	return Document{
		ID:       uuid.New(),
		Path:     path,
		Pages:    pages,
		FullText: sb.String(),
	}
}
