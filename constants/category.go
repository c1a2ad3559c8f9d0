package constants

import (
	"strings"
)

// Category is the document family a PDF is classified into.
type Category string

const (
	Policy      Category = "POLICY"
	Certificate Category = "CERTIFICATE"
	Invoice     Category = "INVOICE"
	Agreement   Category = "AGREEMENT"
	Identity    Category = "IDENTITY"
	Unknown     Category = "UNKNOWN"
)

var allCategories = []Category{
	Policy,
	Certificate,
	Invoice,
	Agreement,
	Identity,
	Unknown,
}

// categories that exist as names but ship with no detection rule.
var unimplemented = map[Category]struct{}{
	Agreement: {},
	Identity:  {},
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Unimplemented lists the categories that can only be produced by a rule
// registered at runtime.
func Unimplemented() []Category {
	var out []Category
	for _, cat := range allCategories {
		if _, ok := unimplemented[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// Canonicalize maps free text (config values, CLI flags) onto a known category.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Unknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"declaration":  Policy,
		"declarations": Policy,
		"dec":          Policy,
		"coi":          Certificate,
		"acord":        Certificate,
		"bill":         Invoice,
		"term sheet":   Agreement,
		"term":         Agreement,
		"license":      Identity,
		"id":           Identity,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Unknown, false
}
