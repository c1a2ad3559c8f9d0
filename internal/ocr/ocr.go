package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // whole-page rasterization DPI, default 300
	ZoneDPI       int    // region rasterization DPI, default 300

	TessdataDir string

	PSM     int // page segmentation mode for whole pages; 0 = tesseract default
	OEM     int // 1 = LSTM; leave 0 to use default
	ZonePSM int // default 7, single text line

	WorkDir     string        // parent for temp render dirs; "" = os.TempDir()
	ExecTimeout time.Duration // per command; 0 = none
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithRunner swaps the command runner.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// Extractor renders PDF pages with pdftoppm and recognizes them with
// tesseract.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.ZoneDPI <= 0 {
		cfg.ZoneDPI = 300
	}
	if cfg.ZonePSM <= 0 {
		cfg.ZonePSM = 7
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecognizePage renders one page (1-based) and OCRs it. Word boxes are
// returned in PDF points. A page with no recognized words is an error.
func (e *Extractor) RecognizePage(ctx context.Context, pdfPath string, pageNum int, width, height float64) (entity.Page, error) {
	start := time.Now()
	dir, cleanup, err := e.tempDir()
	if err != nil {
		return entity.Page{}, err
	}
	defer cleanup()

	img, err := e.render(ctx, pdfPath, pageNum, e.cfg.DPI, nil, dir)
	if err != nil {
		return entity.Page{}, err
	}
	out, err := e.tesseract(ctx, img, e.cfg.PSM, true)
	if err != nil {
		return entity.Page{}, err
	}

	res := parseTSV(out, 72/float64(e.cfg.DPI))
	if len(res.Words) == 0 {
		return entity.Page{}, common.NewAppError("OCR_ERROR", fmt.Sprintf("no text recognized on page %d", pageNum), common.ErrOCR)
	}
	e.logger.Debug("page ocr done",
		"path", pdfPath,
		"page", pageNum,
		"words", len(res.Words),
		"confidence", res.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return entity.Page{
		Number: pageNum,
		Width:  width,
		Height: height,
		Text:   Normalize(res.Text),
		Words:  res.Words,
		OCR:    true,
	}, nil
}

// RecognizeRegion renders the rectangle r (PDF points) of page at ZoneDPI
// and reads it as a single line of text. Empty output is an error.
func (e *Extractor) RecognizeRegion(ctx context.Context, docPath string, page entity.Page, r entity.Rect) (string, error) {
	if r.Empty() {
		return "", common.NewAppError("OCR_ERROR", "empty region", common.ErrInvalidInput)
	}
	dir, cleanup, err := e.tempDir()
	if err != nil {
		return "", err
	}
	defer cleanup()

	img, err := e.render(ctx, docPath, page.Number, e.cfg.ZoneDPI, &r, dir)
	if err != nil {
		return "", err
	}
	out, err := e.tesseract(ctx, img, e.cfg.ZonePSM, false)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(Normalize(reBoxNoise.ReplaceAllString(string(out), "")))
	if text == "" {
		return "", common.NewAppError("OCR_ERROR", fmt.Sprintf("no text recognized in region on page %d", page.Number), common.ErrOCR)
	}
	return text, nil
}

// render rasterizes one page, optionally cropped, and returns the PNG path.
func (e *Extractor) render(ctx context.Context, pdfPath string, pageNum, dpi int, crop *entity.Rect, dir string) (string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	prefix := filepath.Join(dir, "page")
	n := strconv.Itoa(pageNum)
	// pdftoppm -r <dpi> -f <n> -l <n> [-x -y -W -H] -png -singlefile <in.pdf> <prefix>
	args := []string{"-r", strconv.Itoa(dpi), "-f", n, "-l", n}
	if crop != nil {
		px := float64(dpi) / 72
		args = append(args,
			"-x", strconv.Itoa(int(crop.Left*px)),
			"-y", strconv.Itoa(int(crop.Top*px)),
			"-W", strconv.Itoa(int(crop.Width()*px+0.5)),
			"-H", strconv.Itoa(int(crop.Height()*px+0.5)),
		)
	}
	args = append(args, "-png", "-singlefile", pdfPath, prefix)

	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		return "", common.NewAppError("OCR_ERROR",
			fmt.Sprintf("pdftoppm page %d: %s", pageNum, truncate(strings.TrimSpace(string(errb)), 512)),
			fmt.Errorf("%w: %w", common.ErrOCR, err))
	}
	img := prefix + ".png"
	if _, err := os.Stat(img); err != nil {
		return "", common.NewAppError("OCR_ERROR", fmt.Sprintf("pdftoppm produced no image for page %d", pageNum), common.ErrOCR)
	}
	return img, nil
}

func (e *Extractor) tesseract(ctx context.Context, imagePath string, psm int, tsv bool) ([]byte, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	// tesseract <file> stdout -l <lang> [--psm n] [--oem n] [--tessdata-dir d] [tsv]
	args := []string{imagePath, "stdout", "-l", e.cfg.TesseractLang}
	if psm > 0 {
		args = append(args, "--psm", strconv.Itoa(psm))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	if tsv {
		args = append(args, "tsv")
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return nil, common.NewAppError("OCR_ERROR",
			"tesseract: "+truncate(strings.TrimSpace(string(errb)), 512),
			fmt.Errorf("%w: %w", common.ErrOCR, err))
	}
	return out, nil
}

func (e *Extractor) tempDir() (string, func(), error) {
	dir, err := os.MkdirTemp(e.cfg.WorkDir, "pr-ocr-*")
	if err != nil {
		return "", nil, common.NewAppError("OCR_ERROR", "create temp dir", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
		}
	}, nil
}

func (e *Extractor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.ExecTimeout > 0 {
		return context.WithTimeout(ctx, e.cfg.ExecTimeout)
	}
	return ctx, func() {}
}
