package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("named", "named"))
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 0, Ratio("abc", ""))
	// one substitution in five runes: 10 - 2 = 8 of 10
	assert.Equal(t, 80, Ratio("namcd", "named"))
	assert.GreaterOrEqual(t, Ratio("lnsured", "insured"), 80)
	assert.Less(t, Ratio("premium", "named"), 80)
	assert.Less(t, Ratio("date", "insured"), 80)
}

func TestPartialRatio(t *testing.T) {
	text := "underwritten by state farm fire and casualty"
	assert.Equal(t, 100, PartialRatio("state farm", text))
	assert.Equal(t, 100, PartialRatio(text, "state farm"), "argument order does not matter")
	assert.GreaterOrEqual(t, PartialRatio("state farn", text), 85)
	assert.Less(t, PartialRatio("geico", text), 85)
	assert.Equal(t, 0, PartialRatio("", text))
}

func TestBestMatch(t *testing.T) {
	roster := []string{"Hartford", "The Hartford", "Geico"}
	m, ok := BestMatch("issued by the hartford", roster, strings.ToLower)
	assert.True(t, ok)
	assert.Equal(t, 0, m.Index, "ties go to the earliest entry")
	assert.Equal(t, "Hartford", m.Value)
	assert.Equal(t, 100, m.Score)

	_, ok = BestMatch("anything", nil, nil)
	assert.False(t, ok)
}

func TestProcess(t *testing.T) {
	assert.Equal(t, "auto owners", Process("Auto-Owners"))
	assert.Equal(t, "the hartford ins", Process("  The\n   HARTFORD, Ins.  "))
	assert.Equal(t, "", Process("--/--"))
}
