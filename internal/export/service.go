package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/pipeline"
)

const sheet = "Run"

// Service turns a run's outcomes into an XLSX report.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var headers = []string{
	"Source File",
	"Status",
	"Category",
	"Insured",
	"Company",
	"Date",
	"New Name",
	"Name Source",
	"Date Source",
	"Company Source",
	"Pages",
	"OCR Pages",
	"Duration (ms)",
	"Error",
}

// ExportOutcomesXLSX returns an XLSX workbook (as bytes) with one row per
// outcome, in the order given.
func (s *Service) ExportOutcomesXLSX(ctx context.Context, runID uuid.UUID, outcomes []pipeline.Outcome) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, o := range outcomes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, o.Path)
		write(2, string(o.Status))
		write(3, string(o.Category))
		write(4, o.Metadata.InsuredName)
		write(5, o.Metadata.CompanyName)
		write(6, o.Metadata.Date)
		write(7, o.NewName)
		write(8, o.Sources.Name)
		write(9, o.Sources.Date)
		write(10, o.Sources.Company)
		write(11, o.Pages)
		write(12, o.OCRPages)
		write(13, o.Duration.Milliseconds())
		write(14, truncate(errText(o), 200))
	}

	_ = f.SetColWidth(sheet, "A", "A", 60) // source
	_ = f.SetColWidth(sheet, "B", "C", 14)
	_ = f.SetColWidth(sheet, "D", "E", 28)
	_ = f.SetColWidth(sheet, "F", "F", 12)
	_ = f.SetColWidth(sheet, "G", "G", 60) // new name
	_ = f.SetColWidth(sheet, "N", "N", 60) // error
	_ = f.SetDocProps(&excelize.DocProperties{
		Title:       "Rename run " + runID.String(),
		Description: fmt.Sprintf("%d documents", len(outcomes)),
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", runID.String(),
		"rows", len(outcomes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteFile writes the report for outcomes to path, creating parent
// directories as needed.
func (s *Service) WriteFile(ctx context.Context, path string, runID uuid.UUID, outcomes []pipeline.Outcome) error {
	data, err := s.ExportOutcomesXLSX(ctx, runID, outcomes)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return common.WrapError(err, "report dir")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return common.WrapError(err, "write report")
	}
	s.logger.Info("report written", "path", path, "bytes", len(data))
	return nil
}

func errText(o pipeline.Outcome) string {
	switch {
	case o.Err != nil:
		return o.Err.Error()
	case o.ExtractErr != nil:
		return "extraction: " + o.ExtractErr.Error()
	}
	return ""
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
