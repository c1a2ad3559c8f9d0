package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/internal/entity"
	"github.com/joseph-ayodele/policy-renamer/internal/names"
	"github.com/joseph-ayodele/policy-renamer/internal/spatial"
)

const nameValue = `([A-Za-z0-9\s,&.-]+)`

// insuredPatterns are tried in order against the document text.
var insuredPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Item\s*\d+\.?)?\s*Named\s*Insured(?:\(s\)|s)?[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Insured\s*Names?[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Insured[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Account\s*Name[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Applicant[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Customer[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)(?:First\s*)?Named\s*Insured[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Policyholder[:.]?\s*` + nameValue),
	regexp.MustCompile(`(?i)Entity[:.]?\s*` + nameValue),
}

var (
	parenthetical = regexp.MustCompile(`\([^()]*\)`)
	pageMarker    = regexp.MustCompile(`(?i)Page\s+\d+`)
	policyNoTail  = regexp.MustCompile(`(?i)Policy\s+No.*`)
)

func (r *Resolver) defaultNameStrategies() []Strategy {
	nt := r.tuning.Name
	return []Strategy{
		{Name: "label", Find: r.nameFromLabels},
		r.spatialName("spatial:colon-right", nt.ColonKeys, spatial.Right),
		r.spatialName("spatial:plain-below", nt.PlainKeys, spatial.Below),
		r.spatialName("spatial:colon-below", nt.ColonKeys, spatial.Below),
		r.spatialName("spatial:plain-right", nt.PlainKeys, spatial.Right),
		{Name: "surname", Find: r.nameFromSurnames},
	}
}

func (r *Resolver) nameFromLabels(_ context.Context, doc entity.Document) (string, bool) {
	text := parenthetical.ReplaceAllString(doc.FullText, "")
	for _, re := range insuredPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if name, ok := r.acceptName(m[1]); ok {
			return name, true
		}
	}
	return "", false
}

func (r *Resolver) spatialName(name string, keywords []string, dir spatial.Direction) Strategy {
	q := spatial.Query{
		Keywords:   keywords,
		Direction:  dir,
		XTolerance: r.tuning.Name.RightTolerance,
		YTolerance: r.tuning.Name.BelowTolerance,
		ZoneOCR:    dir == spatial.Right,
	}
	return Strategy{Name: name, Find: func(ctx context.Context, doc entity.Document) (string, bool) {
		v, ok := r.locator.Locate(ctx, doc, q)
		if !ok {
			return "", false
		}
		return r.acceptName(parenthetical.ReplaceAllString(v, ""))
	}}
}

func (r *Resolver) nameFromSurnames(_ context.Context, doc entity.Document) (string, bool) {
	text := parenthetical.ReplaceAllString(doc.FullText, "")
	for _, cand := range r.matcher.FindPotentialNames(text) {
		if r.validator.IsValidName(cand) {
			return names.Sanitize(cand), true
		}
	}
	return "", false
}

// acceptName cleans a captured value down to its first line and returns the
// sanitized name when it validates.
func (r *Resolver) acceptName(raw string) (string, bool) {
	clean, _, _ := strings.Cut(strings.TrimLeft(raw, " \t\r\n"), "\n")
	clean = pageMarker.ReplaceAllString(clean, "")
	clean = policyNoTail.ReplaceAllString(clean, "")
	clean = strings.Trim(strings.TrimSpace(clean), ".,-:")
	clean = strings.ReplaceAll(clean, ",", "")
	if !r.validator.IsValidName(clean) {
		return "", false
	}
	name := names.Sanitize(clean)
	return name, name != ""
}
