package extract

import (
	"context"

	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

// DocumentExtractor turns a file into pages of text and word geometry.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (entity.Document, error)
}

// PageRecognizer OCRs a whole PDF page (1-based) into an entity.Page.
// Implementations return an error when nothing is recognized, never an
// empty success.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, pdfPath string, pageNum int, width, height float64) (entity.Page, error)
}
