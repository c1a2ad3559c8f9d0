// Package resolver turns an extracted document into filename metadata. Each
// field has an ordered list of strategies; the first one that produces a
// value wins and the field default is used when none does.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/names"
	"github.com/joseph-ayodele/policy-renamer/internal/spatial"
)

// Strategy is one way of finding a field value.
type Strategy struct {
	Name string
	Find func(ctx context.Context, doc entity.Document) (string, bool)
}

// Sources records which strategy produced each field. Empty means the
// default was used.
type Sources struct {
	Name    string
	Date    string
	Company string
}

// Result is the resolved metadata of one document.
type Result struct {
	Metadata entity.Metadata
	Sources  Sources
}

// Resolver is safe for concurrent use; it only reads its tables.
type Resolver struct {
	tuning    common.Tuning
	tables    Tables
	locator   *spatial.Locator
	validator *names.Validator
	matcher   *names.SurnameMatcher
	logger    *slog.Logger

	nameStrategies    []Strategy
	dateStrategies    []Strategy
	companyStrategies []Strategy
}

// New creates a resolver. A nil locator gets one without zone OCR.
func New(logger *slog.Logger, tuning common.Tuning, tables Tables, locator *spatial.Locator) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if locator == nil {
		locator = spatial.NewLocator(logger, tuning.Spatial, nil)
	}
	r := &Resolver{
		tuning:    tuning,
		tables:    tables,
		locator:   locator,
		validator: names.NewValidator(tuning.Name),
		matcher:   names.NewSurnameMatcher(tables.Surnames, tables.Stopwords),
		logger:    logger,
	}
	r.nameStrategies = r.defaultNameStrategies()
	r.dateStrategies = r.defaultDateStrategies()
	r.companyStrategies = r.defaultCompanyStrategies()
	return r
}

// Resolve fills every metadata field of doc. The category only affects the
// type detail.
func (r *Resolver) Resolve(ctx context.Context, doc entity.Document, category constants.Category) Result {
	logger := common.LoggerFrom(ctx, r.logger).With("path", doc.Path)
	res := Result{Metadata: entity.NewMetadata()}

	if v, src, ok := run(ctx, doc, r.nameStrategies); ok {
		res.Metadata.InsuredName, res.Sources.Name = v, src
	}
	if v, src, ok := run(ctx, doc, r.dateStrategies); ok {
		res.Metadata.Date, res.Sources.Date = v, src
	}
	if v, src, ok := run(ctx, doc, r.companyStrategies); ok {
		res.Metadata.CompanyName, res.Sources.Company = v, src
	}
	if category == constants.Certificate {
		res.Metadata.TypeDetail = "Certificate"
		if strings.Contains(strings.ToLower(doc.FullText), "acord 25") {
			res.Metadata.TypeDetail = "Acord25"
		}
	}

	logger.Debug("metadata resolved",
		"category", category,
		"insured", res.Metadata.InsuredName, "insured_source", res.Sources.Name,
		"date", res.Metadata.Date, "date_source", res.Sources.Date,
		"company", res.Metadata.CompanyName, "company_source", res.Sources.Company,
	)
	return res
}

func run(ctx context.Context, doc entity.Document, strategies []Strategy) (string, string, bool) {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return "", "", false
		}
		if v, ok := s.Find(ctx, doc); ok {
			return v, s.Name, true
		}
	}
	return "", "", false
}
