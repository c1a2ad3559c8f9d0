package resolver

import (
	"context"

	"github.com/joseph-ayodele/policy-renamer/internal/dates"
	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/spatial"
)

func (r *Resolver) defaultDateStrategies() []Strategy {
	q := spatial.Query{
		Keywords:   r.tuning.Date.Keywords,
		Direction:  spatial.Right,
		XTolerance: r.tuning.Date.RightTolerance,
	}
	return []Strategy{
		{Name: "term", Find: func(_ context.Context, doc entity.Document) (string, bool) {
			return dates.FindTermDate(doc.FullText)
		}},
		{Name: "label", Find: func(_ context.Context, doc entity.Document) (string, bool) {
			return normalized(dates.MatchPatterns(doc.FullText))
		}},
		{Name: "spatial", Find: func(ctx context.Context, doc entity.Document) (string, bool) {
			v, ok := r.locator.Locate(ctx, doc, q)
			if !ok {
				return "", false
			}
			return normalized(dates.MatchPatterns(v))
		}},
	}
}

func normalized(raw string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	v := dates.Normalize(raw)
	return v, v != ""
}
