package names

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SurnameMatcher finds romanized Chinese personal names in free text.
// It holds only read-only tables and is safe for concurrent use.
type SurnameMatcher struct {
	surnames  map[string]struct{}
	syllables map[string]struct{}
	stopwords map[string]struct{}
}

// NewSurnameMatcher builds a matcher over a surname table. Tokens in
// stopwords (case-insensitive) never take part in a name.
func NewSurnameMatcher(table []Surname, stopwords []string) *SurnameMatcher {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &SurnameMatcher{
		surnames:  romanizations(table),
		syllables: Syllables(),
		stopwords: stop,
	}
}

// FindPotentialNames returns every two- and three-token run that looks like
// a romanized name: all tokens capitalized, a surname at one end and valid
// syllables or initials elsewhere. Results are unique, longest first, ties
// in order of first appearance.
func (m *SurnameMatcher) FindPotentialNames(text string) []string {
	tokens := strings.Fields(text)
	var found []string

	for i := 0; i+1 < len(tokens); i++ {
		w1, ok1 := cleanToken(tokens[i])
		w2, ok2 := cleanToken(tokens[i+1])
		if !ok1 || !ok2 || !alphaOrInitial(w1) || !alphaOrInitial(w2) {
			continue
		}

		if i+2 < len(tokens) {
			if w3, ok := cleanToken(tokens[i+2]); ok && alphaOrInitial(w3) && m.threeTokenName(w1, w2, w3) {
				found = append(found, w1+" "+w2+" "+w3)
			}
		}
		if m.twoTokenName(w1, w2) {
			found = append(found, w1+" "+w2)
		}
	}

	return longestFirst(found)
}

func (m *SurnameMatcher) threeTokenName(w1, w2, w3 string) bool {
	if !capitalized(w1) || !capitalized(w2) || !capitalized(w3) {
		return false
	}
	if m.isStopword(w1) || m.isStopword(w2) || m.isStopword(w3) {
		return false
	}
	switch {
	case m.isSurname(w1):
		// Wang Xiao Ming, Wang A. Ming
		return (m.isSyllable(w2) && m.isSyllable(w3)) || isInitial(w2)
	case m.isSurname(w3):
		// Xiao Ming Wang, John A. Wang
		return (m.isSyllable(w1) && m.isSyllable(w2)) || isInitial(w2)
	}
	return false
}

func (m *SurnameMatcher) twoTokenName(w1, w2 string) bool {
	if !capitalized(w1) || !capitalized(w2) {
		return false
	}
	if m.isStopword(w1) || m.isStopword(w2) {
		return false
	}
	switch {
	case m.isSurname(w1):
		return m.isSyllable(w2) || isInitial(w2)
	case m.isSurname(w2):
		return m.isSyllable(w1) || isInitial(w1)
	}
	return false
}

func (m *SurnameMatcher) isSurname(w string) bool {
	_, ok := m.surnames[key(w)]
	return ok
}

func (m *SurnameMatcher) isSyllable(w string) bool {
	_, ok := m.syllables[key(w)]
	return ok
}

func (m *SurnameMatcher) isStopword(w string) bool {
	_, ok := m.stopwords[key(w)]
	return ok
}

func key(w string) string {
	return strings.ToLower(strings.Trim(w, "."))
}

// cleanToken strips quotes and punctuation from a raw token. A single
// letter followed by a period is kept as an initial.
func cleanToken(tok string) (string, bool) {
	t := strings.Trim(tok, `()"',-:`)
	if t == "" {
		return "", false
	}
	if utf8.RuneCountInString(t) == 2 && strings.HasSuffix(t, ".") {
		if r, _ := utf8.DecodeRuneInString(t); unicode.IsLetter(r) {
			return t, true
		}
	}
	t = strings.Trim(t, ".")
	return t, t != ""
}

func alphaOrInitial(w string) bool {
	return isAlpha(strings.TrimSuffix(w, "."))
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isInitial(w string) bool {
	return strings.HasSuffix(w, ".") || utf8.RuneCountInString(w) == 1
}

func capitalized(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

func longestFirst(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
