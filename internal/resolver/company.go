package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/fuzzy"
)

var companyLabel = regexp.MustCompile(`(?i)(?:Underwritten by|Company|Insurer|Producer):\s*([A-Za-z\s,.]+)`)

func (r *Resolver) defaultCompanyStrategies() []Strategy {
	return []Strategy{
		{Name: "roster", Find: r.companyFromRoster},
		{Name: "label", Find: r.companyFromLabel},
	}
}

// companyFromRoster keeps the roster's casing for the best partial match.
func (r *Resolver) companyFromRoster(_ context.Context, doc entity.Document) (string, bool) {
	text := fuzzy.Process(doc.FullText)
	if text == "" {
		return "", false
	}
	m, ok := fuzzy.BestMatch(text, r.tables.Roster, fuzzy.Process)
	if !ok || m.Score <= r.tuning.Company.MinScore {
		return "", false
	}
	return m.Value, true
}

func (r *Resolver) companyFromLabel(_ context.Context, doc entity.Document) (string, bool) {
	m := companyLabel.FindStringSubmatch(doc.FullText)
	if m == nil {
		return "", false
	}
	cand, _, _ := strings.Cut(m[1], ",")
	cand, _, _ = strings.Cut(strings.TrimSpace(cand), "\n")
	cand = strings.TrimRight(strings.TrimSpace(cand), ".")
	if len(cand) <= r.tuning.Company.MinLength {
		return "", false
	}
	return strings.Join(strings.Fields(cand), "_"), true
}
