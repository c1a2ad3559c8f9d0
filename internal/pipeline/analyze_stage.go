package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/classify"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/extract"
	"github.com/joseph-ayodele/policy-renamer/internal/resolver"
)

// Analysis is what the analyze stage learned about one document.
type Analysis struct {
	Document   entity.Document
	Category   constants.Category
	Resolution resolver.Result
	// ExtractErr is set when extraction failed and the document was
	// analyzed as empty text.
	ExtractErr error
}

// AnalyzeStage extracts, classifies and resolves a document.
type AnalyzeStage struct {
	Extractor  extract.DocumentExtractor
	Classifier *classify.Classifier
	Resolver   *resolver.Resolver
	Logger     *slog.Logger
}

func NewAnalyzeStage(ex extract.DocumentExtractor, c *classify.Classifier, r *resolver.Resolver, logger *slog.Logger) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStage{Extractor: ex, Classifier: c, Resolver: r, Logger: logger}
}

// Run never fails: an extraction error degrades to an empty document, which
// classifies as UNKNOWN and resolves to defaults.
func (s *AnalyzeStage) Run(ctx context.Context, path string) Analysis {
	logger := common.LoggerFrom(ctx, s.Logger)

	var a Analysis
	doc, err := s.Extractor.Extract(ctx, path)
	if err != nil {
		logger.Warn("extraction failed, continuing with empty text", "path", path, "error", err)
		a.ExtractErr = err
		doc = entity.NewDocument(path, nil)
	}
	if id, ok := common.DocumentIDFromContext(ctx); ok {
		doc.ID = id
	}
	a.Document = doc
	a.Category = s.Classifier.Classify(doc.FullText)
	a.Resolution = s.Resolver.Resolve(ctx, doc, a.Category)

	logger.Debug("document analyzed",
		"path", path,
		"category", a.Category,
		"pages", len(doc.Pages),
		"chars", len(doc.FullText),
	)
	return a
}
