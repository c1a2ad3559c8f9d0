// Package fuzzy scores string similarity on a 0-100 scale so that labels
// mangled by OCR ("Namcd" for "Named") still match.
package fuzzy

import (
	"math"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
)

// Substitution counts as a delete plus an insert, which turns the edit
// distance into the indel distance the ratio is defined over.
var indel = levenshtein.NewParams().SubCost(2)

// Ratio returns 100 * (1 - indelDistance / (len(a)+len(b))), rounded.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 100
	}
	d := levenshtein.Distance(a, b, indel)
	return score(la+lb-d, la+lb)
}

// PartialRatio scores the shorter string against the best-matching
// same-length window of the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}
	if strings.Contains(string(long), string(short)) {
		return 100
	}

	s := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		r := Ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// Match is the result of BestMatch.
type Match struct {
	Index int
	Value string
	Score int
}

// BestMatch returns the candidate with the highest partial ratio against
// text. Ties go to the earliest candidate.
func BestMatch(text string, candidates []string, normalize func(string) string) (Match, bool) {
	best := Match{Index: -1}
	for i, c := range candidates {
		needle := c
		if normalize != nil {
			needle = normalize(c)
		}
		if sc := PartialRatio(needle, text); sc > best.Score {
			best = Match{Index: i, Value: c, Score: sc}
		}
	}
	return best, best.Index >= 0
}

// Process lower-cases s and reduces it to runs of letters and digits
// separated by single spaces.
func Process(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

func score(num, den int) int {
	return int(math.Round(100 * float64(num) / float64(den)))
}
