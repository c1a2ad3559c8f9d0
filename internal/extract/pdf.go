package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

// Config controls how much of a document is read.
type Config struct {
	MaxPages    int // default 5
	MinPageText int // pages with fewer text characters are OCR'd, default 50
}

// PDFExtractor reads the text layer with ledongthuc/pdf and falls back to
// OCR for pages that have little or no text.
type PDFExtractor struct {
	cfg    Config
	ocr    PageRecognizer
	logger *slog.Logger

	// seams for tests
	open func(path string) (pageSource, error)
	dims func(path string) ([]types.Dim, error)
}

// pageSource is the part of a parsed PDF the extractor needs.
type pageSource interface {
	NumPage() int
	Page(num int) (words []entity.Word, text string, width, height float64, err error)
	Close() error
}

// NewPDFExtractor creates an extractor. ocr may be nil, in which case
// text-poor pages are returned as they are.
func NewPDFExtractor(cfg Config, ocr PageRecognizer, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 5
	}
	if cfg.MinPageText <= 0 {
		cfg.MinPageText = 50
	}
	return &PDFExtractor{cfg: cfg, ocr: ocr, logger: logger, open: openLedongthuc, dims: pageDims}
}

// Extract reads up to MaxPages pages. It only fails when neither the text
// layer nor the page structure can be read.
func (x *PDFExtractor) Extract(ctx context.Context, path string) (entity.Document, error) {
	start := time.Now()
	logger := common.LoggerFrom(ctx, x.logger).With("path", path)

	dims, dimErr := x.dims(path)
	if dimErr != nil {
		logger.Debug("page geometry unavailable", "error", dimErr)
	}

	src, openErr := x.open(path)
	if openErr != nil {
		if dimErr != nil {
			return entity.Document{}, common.NewAppError("EXTRACT_ERROR", "unreadable pdf",
				fmt.Errorf("%w: %w", common.ErrExtraction, errors.Join(openErr, dimErr)))
		}
		logger.Warn("pdf text layer unreadable, falling back to ocr", "error", openErr, "pages", len(dims))
		return x.ocrOnly(ctx, path, dims, logger)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Debug("close pdf", "error", err)
		}
	}()

	n := min(src.NumPage(), x.cfg.MaxPages)
	pages := make([]entity.Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return entity.Document{}, err
		}
		words, text, w, h, err := src.Page(i)
		if err != nil {
			logger.Warn("page text extraction failed", "page", i, "error", err)
		}
		if i <= len(dims) {
			w, h = dims[i-1].Width, dims[i-1].Height
		}
		if w <= 0 || h <= 0 {
			w, h = letter.Width, letter.Height
		}
		page := entity.Page{Number: i, Width: w, Height: h, Text: text, Words: words}

		if len(strings.TrimSpace(text)) < x.cfg.MinPageText && x.ocr != nil {
			if ocrPage, err := x.ocr.RecognizePage(ctx, path, i, w, h); err != nil {
				logger.Warn("page ocr failed, keeping text layer", "page", i, "error", err)
			} else {
				page = ocrPage
			}
		}
		pages = append(pages, page)
	}

	doc := entity.NewDocument(path, pages)
	logger.Info("document extracted",
		"pages", len(pages),
		"ocr_pages", countOCR(pages),
		"chars", len(doc.FullText),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

func (x *PDFExtractor) ocrOnly(ctx context.Context, path string, dims []types.Dim, logger *slog.Logger) (entity.Document, error) {
	if x.ocr == nil {
		return entity.Document{}, common.NewAppError("EXTRACT_ERROR", "pdf text layer unreadable and ocr disabled", common.ErrExtraction)
	}
	n := min(len(dims), x.cfg.MaxPages)
	pages := make([]entity.Page, 0, n)
	var errs []error
	for i := 1; i <= n; i++ {
		d := dims[i-1]
		page, err := x.ocr.RecognizePage(ctx, path, i, d.Width, d.Height)
		if err != nil {
			logger.Warn("page ocr failed", "page", i, "error", err)
			errs = append(errs, err)
			page = entity.Page{Number: i, Width: d.Width, Height: d.Height, OCR: true}
		}
		pages = append(pages, page)
	}
	if n > 0 && len(errs) == n {
		return entity.Document{}, common.NewAppError("EXTRACT_ERROR", "ocr failed on every page",
			fmt.Errorf("%w: %w", common.ErrExtraction, errors.Join(errs...)))
	}
	return entity.NewDocument(path, pages), nil
}

func countOCR(pages []entity.Page) int {
	n := 0
	for _, p := range pages {
		if p.OCR {
			n++
		}
	}
	return n
}

// ledongthucSource adapts a ledongthuc/pdf reader.
type ledongthucSource struct {
	closer interface{ Close() error }
	r      *pdf.Reader
}

func openLedongthuc(path string) (src pageSource, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf open: %v", rec)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{closer: f, r: r}, nil
}

func (s *ledongthucSource) NumPage() int { return s.r.NumPage() }

func (s *ledongthucSource) Close() error { return s.closer.Close() }

// Page reads one page. The parser panics on some malformed content streams,
// which is reported as an error.
func (s *ledongthucSource) Page(num int) (words []entity.Word, text string, width, height float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d content: %v", num, rec)
		}
	}()
	p := s.r.Page(num)
	if p.V.IsNull() {
		return nil, "", 0, 0, fmt.Errorf("page %d missing", num)
	}
	width, height = mediaBox(p)
	if height <= 0 {
		height = letter.Height
	}
	words, text = layoutWords(p.Content().Text, height)
	return words, text, width, height, nil
}

func mediaBox(p pdf.Page) (float64, float64) {
	box := p.V.Key("MediaBox")
	if box.Len() != 4 {
		return 0, 0
	}
	return box.Index(2).Float64() - box.Index(0).Float64(), box.Index(3).Float64() - box.Index(1).Float64()
}
