package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every empirically tuned constant of the extraction heuristics.
// Values can be overridden from a YAML file; anything the file leaves out
// keeps its default.
type Tuning struct {
	MaxPages    int `yaml:"max_pages"`
	MinPageText int `yaml:"min_page_text"`

	Spatial SpatialTuning `yaml:"spatial"`
	Name    NameTuning    `yaml:"name"`
	Date    DateTuning    `yaml:"date"`
	Company CompanyTuning `yaml:"company"`

	// Rules are extra classification rules registered after the stock table.
	Rules []RuleTuning `yaml:"rules"`
}

// RuleTuning is a classification rule as written in the tuning file.
// Category accepts any name or synonym constants.Canonicalize knows.
type RuleTuning struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Priority int      `yaml:"priority"`
}

// SpatialTuning configures anchor matching and value collection around an anchor.
type SpatialTuning struct {
	AnchorSimilarity int      `yaml:"anchor_similarity"`
	BandPad          float64  `yaml:"band_pad"`
	WrapTopSlack     float64  `yaml:"wrap_top_slack"`
	WrapGap          float64  `yaml:"wrap_gap"`
	WrapLeftSlack    float64  `yaml:"wrap_left_slack"`
	BelowTopSlack    float64  `yaml:"below_top_slack"`
	BelowLeftSlack   float64  `yaml:"below_left_slack"`
	BelowRightReach  float64  `yaml:"below_right_reach"`
	MinValueLength   int      `yaml:"min_value_length"`
	ZoneWidth        float64  `yaml:"zone_width"`
	ZonePad          float64  `yaml:"zone_pad"`
	ZoneDPI          int      `yaml:"zone_dpi"`
	StopTerms        []string `yaml:"stop_terms"`
}

// NameTuning configures insured name resolution.
type NameTuning struct {
	ColonKeys      []string `yaml:"colon_keys"`
	PlainKeys      []string `yaml:"plain_keys"`
	RightTolerance float64  `yaml:"right_tolerance"`
	BelowTolerance float64  `yaml:"below_tolerance"`
	MinLength      int      `yaml:"min_length"`
	MaxDigitRatio  float64  `yaml:"max_digit_ratio"`
	Blocklist      []string `yaml:"blocklist"`   // substring match
	BlockWords     []string `yaml:"block_words"` // whole-word match
	Connectives    []string `yaml:"connectives"`
	Stopwords      []string `yaml:"surname_stopwords"`
}

// DateTuning configures the spatial date fallback.
type DateTuning struct {
	Keywords       []string `yaml:"keywords"`
	RightTolerance float64  `yaml:"right_tolerance"`
}

// CompanyTuning configures insurer detection.
type CompanyTuning struct {
	MinScore  int      `yaml:"min_score"`
	MinLength int      `yaml:"min_length"`
	Roster    []string `yaml:"roster"`
}

// DefaultTuning returns the stock heuristics.
func DefaultTuning() Tuning {
	var t Tuning
	t.defaults()
	return t
}

func (t *Tuning) defaults() {
	if t.MaxPages == 0 {
		t.MaxPages = 5
	}
	if t.MinPageText == 0 {
		t.MinPageText = 50
	}

	s := &t.Spatial
	if s.AnchorSimilarity == 0 {
		s.AnchorSimilarity = 80
	}
	if s.BandPad == 0 {
		s.BandPad = 5
	}
	if s.WrapTopSlack == 0 {
		s.WrapTopSlack = 2
	}
	if s.WrapGap == 0 {
		s.WrapGap = 20
	}
	if s.WrapLeftSlack == 0 {
		s.WrapLeftSlack = 20
	}
	if s.BelowTopSlack == 0 {
		s.BelowTopSlack = 2
	}
	if s.BelowLeftSlack == 0 {
		s.BelowLeftSlack = 10
	}
	if s.BelowRightReach == 0 {
		s.BelowRightReach = 100
	}
	if s.MinValueLength == 0 {
		s.MinValueLength = 2
	}
	if s.ZoneWidth == 0 {
		s.ZoneWidth = 400
	}
	if s.ZonePad == 0 {
		s.ZonePad = 5
	}
	if s.ZoneDPI == 0 {
		s.ZoneDPI = 300
	}
	if s.StopTerms == nil {
		s.StopTerms = []string{
			"date", "policy", "number", "agent", "address", "phone", "fax", "email",
			"website", "www", "http", "page", "of", "produced", "by", "code",
		}
	}

	n := &t.Name
	if n.ColonKeys == nil {
		n.ColonKeys = []string{
			"named insured:", "insured name:", "insured:", "applicant:",
			"customer:", "policyholder:", "entity:", "client:",
		}
	}
	if n.PlainKeys == nil {
		n.PlainKeys = []string{"named insured", "insured name", "policyholder"}
	}
	if n.RightTolerance == 0 {
		n.RightTolerance = 300
	}
	if n.BelowTolerance == 0 {
		n.BelowTolerance = 25
	}
	if n.MinLength == 0 {
		n.MinLength = 3
	}
	if n.MaxDigitRatio == 0 {
		n.MaxDigitRatio = 0.4
	}
	if n.Blocklist == nil {
		n.Blocklist = []string{
			"policy", "number", "date", "page", "invoice", "bill", "renewal", "item",
			"agent", "agency", "producer", "transaction", "code", "insurance", "company",
			"declaration", "homeowner", "automobile", "unknown", "address", "phone", "fax",
			"email", "website", "www", "http", "summary", "coverage", "auto", "liability",
			"commercial", "quote", "proposal", "endorsement", "detail", "premium",
			"location",
		}
	}
	if n.BlockWords == nil {
		n.BlockWords = []string{"suite", "check", "cancelled", "postnet"}
	}
	if n.Connectives == nil {
		n.Connectives = []string{"and", "or", "the", "of", "for", "to", "by", "with", "at", "in", "on"}
	}
	if n.Stopwords == nil {
		n.Stopwords = []string{
			"the", "is", "for", "by", "of", "and", "to", "in", "on", "at",
			"customer", "insured", "name", "policy", "number", "agent", "date", "page",
			"total", "amount", "due", "paid", "payment", "from", "bill", "effective",
			"coverage", "insurance", "premium", "declaration", "certificate",
			"endorsement", "period", "issue", "issued", "producer", "agency", "company",
			"description", "item", "location", "check", "cancelled",
		}
	}

	d := &t.Date
	if d.Keywords == nil {
		d.Keywords = []string{"effective date", "policy period", "period:", "date of issue", "invoice date"}
	}
	if d.RightTolerance == 0 {
		d.RightTolerance = 200
	}

	c := &t.Company
	if c.MinScore == 0 {
		c.MinScore = 85
	}
	if c.MinLength == 0 {
		c.MinLength = 3
	}
	if c.Roster == nil {
		c.Roster = []string{
			"Geico", "State Farm", "Allstate", "Liberty Mutual", "Progressive", "Chubb",
			"Travelers", "MIC", "Integon", "Guard", "Hyundai", "Nationwide", "Farmers",
			"USAA", "The Hartford", "Berkshire Hathaway", "MetLife", "CNA", "Amica",
			"Erie", "Auto-Owners", "Zurich", "AIG", "Markel", "Hiscox", "Hartford",
			"Philadelphia", "Starr", "Lloyds", "Scottsdale",
		}
	}
}

// LoadTuning reads a YAML tuning file over the defaults. An empty path
// returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, NewAppError("CONFIG_ERROR", fmt.Sprintf("read tuning file %s", path), err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML tuning data and fills unset fields with defaults.
func ParseTuning(data []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, NewAppError("CONFIG_ERROR", "parse tuning file", err)
	}
	t.defaults()
	return t, nil
}

func (t *Tuning) validate(v *Validator) {
	v.Field("max_pages", t.MaxPages, Positive)
	v.Field("spatial.anchor_similarity", t.Spatial.AnchorSimilarity, Percent)
	v.Field("spatial.zone_dpi", t.Spatial.ZoneDPI, Positive)
	v.Field("name.max_digit_ratio", t.Name.MaxDigitRatio, Fraction)
	v.Field("company.min_score", t.Company.MinScore, Percent)
	v.Field("company.roster", t.Company.Roster, NotEmpty)
	for i, r := range t.Rules {
		v.Field(fmt.Sprintf("rules[%d].category", i), r.Category, KnownCategory)
		v.Field(fmt.Sprintf("rules[%d].keywords", i), r.Keywords, NotEmpty)
	}
}
