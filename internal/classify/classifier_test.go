package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/policy-renamer/constants"
	"github.com/joseph-ayodele/policy-renamer/internal/common"
)

func TestClassify_Defaults(t *testing.T) {
	c := NewClassifier(nil, nil)

	cases := []struct {
		name string
		text string
		want constants.Category
	}{
		{"declaration page", "HOMEOWNERS POLICY DECLARATIONS", constants.Policy},
		{"dwelling coverage", "Coverage A - Dwelling $350,000", constants.Policy},
		{"certificate", "CERTIFICATE OF LIABILITY INSURANCE ACORD 25", constants.Certificate},
		{"invoice", "Invoice #1234 Amount Due", constants.Invoice},
		{"bill", "Your monthly bill", constants.Invoice},
		{"nothing", "Hello world", constants.Unknown},
		{"empty", "", constants.Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.text))
		})
	}
}

func TestClassify_PolicyBeatsInvoice(t *testing.T) {
	c := NewClassifier(nil, nil)
	text := "INVOICE attached. See the Declaration page for details."
	assert.Equal(t, constants.Policy, c.Classify(text))
}

func TestClassify_CertificateBeatsInvoice(t *testing.T) {
	c := NewClassifier(nil, nil)
	assert.Equal(t, constants.Certificate, c.Classify("Acord form, invoice enclosed"))
}

func TestRegister(t *testing.T) {
	c := NewClassifier(nil, nil)
	assert.Equal(t, constants.Unknown, c.Classify("Term Sheet for Agreement"))

	c.Register(Rule{Category: constants.Agreement, Priority: 5, Keywords: []string{" Term Sheet "}})
	assert.Equal(t, constants.Agreement, c.Classify("term sheet with declaration"))
	assert.Equal(t, constants.Policy, c.Classify("declaration only"))
}

func TestUnimplementedCategoriesHaveNoDefaultRule(t *testing.T) {
	rules := DefaultRules()
	for _, cat := range constants.Unimplemented() {
		for _, r := range rules {
			assert.NotEqual(t, cat, r.Category)
		}
	}
	assert.ElementsMatch(t, []constants.Category{constants.Agreement, constants.Identity}, constants.Unimplemented())
}

func TestRulesFromTuning(t *testing.T) {
	tuning, err := common.ParseTuning([]byte(`
rules:
  - category: term sheet
    priority: 5
    keywords: ["Term Sheet"]
  - category: license
    priority: 40
    keywords: ["driver license"]
`))
	require.NoError(t, err)

	rules, err := RulesFromTuning(tuning.Rules)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, constants.Agreement, rules[0].Category)
	assert.Equal(t, constants.Identity, rules[1].Category)

	c := NewClassifier(nil, nil)
	for _, r := range rules {
		c.Register(r)
	}
	assert.Equal(t, constants.Agreement, c.Classify("TERM SHEET with declaration attached"))
	assert.Equal(t, constants.Identity, c.Classify("Driver License"))
	assert.Equal(t, constants.Invoice, c.Classify("invoice for the driver license renewal"), "stock rules keep their priority")
}

func TestRulesFromTuning_UnknownCategory(t *testing.T) {
	_, err := RulesFromTuning([]common.RuleTuning{{Category: "brochure", Keywords: []string{"brochure"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Equal(t, "CONFIG_ERROR", common.ErrorCode(err))

	_, err = RulesFromTuning([]common.RuleTuning{{Category: "UNKNOWN", Keywords: []string{"x"}}})
	assert.Error(t, err)
}
