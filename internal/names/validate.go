// Package names validates and sanitizes party names and finds romanized
// Chinese names in free text.
package names

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/policy-renamer/internal/common"
)

var embeddedDate = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)

// Validator decides whether a candidate string is plausibly a party name.
type Validator struct {
	minLength     int
	maxDigitRatio float64
	blocklist     []string
	blockWords    map[string]struct{}
	connectives   map[string]struct{}
}

// NewValidator builds a validator from the name tuning block.
func NewValidator(t common.NameTuning) *Validator {
	v := &Validator{
		minLength:     t.MinLength,
		maxDigitRatio: t.MaxDigitRatio,
		blockWords:    make(map[string]struct{}, len(t.BlockWords)),
		connectives:   make(map[string]struct{}, len(t.Connectives)),
	}
	for _, b := range t.BlockWords {
		v.blockWords[strings.ToLower(b)] = struct{}{}
	}
	for _, b := range t.Blocklist {
		v.blocklist = append(v.blocklist, strings.ToLower(b))
	}
	for _, c := range t.Connectives {
		v.connectives[strings.ToLower(c)] = struct{}{}
	}
	return v
}

// IsValidName rejects short strings, strings containing blocklisted
// boilerplate or a blocked word, digit-heavy strings, embedded dates, lone
// connectives, and strings with no word of two or more letters.
func (v *Validator) IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < v.minLength {
		return false
	}

	lower := strings.ToLower(name)
	for _, b := range v.blocklist {
		if strings.Contains(lower, b) {
			return false
		}
	}
	for _, tok := range strings.Fields(lower) {
		if _, ok := v.blockWords[strings.Trim(tok, ".,-:;")]; ok {
			return false
		}
	}

	digits := 0
	for _, r := range name {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if float64(digits)/float64(n) > v.maxDigitRatio {
		return false
	}

	if embeddedDate.MatchString(name) {
		return false
	}

	if _, ok := v.connectives[lower]; ok {
		return false
	}

	for _, tok := range strings.Fields(name) {
		letters := 0
		for _, r := range tok {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		if letters >= 2 {
			return true
		}
	}
	return false
}

var reserved = regexp.MustCompile(`[<>:"/\\|?*]`)

// Sanitize makes a name safe for use in a filename: reserved characters
// removed, boundary punctuation trimmed, whitespace runs replaced by one
// underscore.
func Sanitize(name string) string {
	s := reserved.ReplaceAllString(name, "")
	s = strings.Trim(s, " \t\n.,-_")
	return strings.Join(strings.Fields(s), "_")
}
