package classify

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
)

// Rule maps a category to its trigger keywords. Lower Priority values are
// tested first.
type Rule struct {
	Category constants.Category
	Keywords []string
	Priority int
}

// DefaultRules is the stock keyword table.
func DefaultRules() []Rule {
	return []Rule{
		{Category: constants.Policy, Priority: 10, Keywords: []string{"declaration", "deductible", "peril", "coverage", "dwelling"}},
		{Category: constants.Certificate, Priority: 20, Keywords: []string{"certificate of insurance", "acord"}},
		{Category: constants.Invoice, Priority: 30, Keywords: []string{"invoice", "bill", "due"}},
	}
}

// RulesFromTuning resolves tuning-file rules into Rules. Category names go
// through constants.Canonicalize, so synonyms such as "coi" are accepted.
func RulesFromTuning(ts []common.RuleTuning) ([]Rule, error) {
	rules := make([]Rule, 0, len(ts))
	for i, t := range ts {
		cat, ok := constants.Canonicalize(t.Category)
		if !ok || cat == constants.Unknown {
			return nil, common.NewAppError("CONFIG_ERROR",
				fmt.Sprintf("rule %d: unknown category %q", i, t.Category), common.ErrInvalidInput)
		}
		rules = append(rules, Rule{Category: cat, Keywords: t.Keywords, Priority: t.Priority})
	}
	return rules, nil
}

// Classifier assigns a category from case-insensitive keyword tests.
// It is safe for concurrent use.
type Classifier struct {
	mu     sync.RWMutex
	rules  []Rule
	logger *slog.Logger
}

// NewClassifier creates a classifier seeded with rules (DefaultRules when nil).
func NewClassifier(logger *slog.Logger, rules []Rule) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if rules == nil {
		rules = DefaultRules()
	}
	c := &Classifier{logger: logger}
	for _, r := range rules {
		c.Register(r)
	}
	return c
}

// Register adds a rule. Rules with equal priority keep registration order.
func (c *Classifier) Register(r Rule) {
	kws := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kws = append(kws, k)
		}
	}
	r.Keywords = kws

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, r)
	sort.SliceStable(c.rules, func(i, j int) bool { return c.rules[i].Priority < c.rules[j].Priority })
}

// Classify returns the category of the first rule with a keyword present in
// fullText, or constants.Unknown.
func (c *Classifier) Classify(fullText string) constants.Category {
	lower := strings.ToLower(fullText)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				c.logger.Debug("classified", "category", r.Category, "keyword", k)
				return r.Category
			}
		}
	}
	return constants.Unknown
}
