// Package dates finds and normalizes the effective date of a document.
package dates

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Triple is a parsed calendar date. No calendar validation beyond ranges is
// performed.
type Triple struct {
	Month int
	Day   int
	Year  int
}

// Before orders triples chronologically.
func (t Triple) Before(o Triple) bool {
	if t.Year != o.Year {
		return t.Year < o.Year
	}
	if t.Month != o.Month {
		return t.Month < o.Month
	}
	return t.Day < o.Day
}

// String renders MM-DD-YYYY.
func (t Triple) String() string {
	return fmt.Sprintf("%02d-%02d-%d", t.Month, t.Day, t.Year)
}

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var partSep = regexp.MustCompile(`[-/.,\s]+`)

// Parse reads month/day/year from a numeric ("1/25/26", "01-25-2026") or
// textual ("Jan 25, 2026") date. Two-digit years are taken as 20xx.
func Parse(raw string) (Triple, bool) {
	parts := partSep.Split(strings.TrimSpace(raw), -1)
	fields := parts[:0]
	for _, p := range parts {
		if p != "" {
			fields = append(fields, p)
		}
	}
	if len(fields) != 3 {
		return Triple{}, false
	}

	var t Triple
	var err error
	if len(fields[0]) >= 3 {
		m, ok := months[strings.ToLower(fields[0][:3])]
		if !ok {
			return Triple{}, false
		}
		t.Month = m
	} else if t.Month, err = strconv.Atoi(fields[0]); err != nil {
		return Triple{}, false
	}
	if t.Day, err = strconv.Atoi(fields[1]); err != nil {
		return Triple{}, false
	}
	if t.Year, err = strconv.Atoi(fields[2]); err != nil {
		return Triple{}, false
	}
	if t.Year < 100 {
		t.Year += 2000
	}
	if t.Month < 1 || t.Month > 12 || t.Day < 1 || t.Day > 31 {
		return Triple{}, false
	}
	return t, true
}

const monthName = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}`

var termPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
	regexp.MustCompile(`(?i)\b(` + monthName + `)\b`),
}

// FindTermDate looks for a policy term: two dates with the same month and
// day in different years. The earlier member of the first such pair, in
// chronological order, is returned as MM-DD-YYYY.
func FindTermDate(text string) (string, bool) {
	var found []Triple
	for _, re := range termPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if t, ok := Parse(m[1]); ok {
				found = append(found, t)
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Before(found[j]) })

	for i := range found {
		for j := i + 1; j < len(found); j++ {
			a, b := found[i], found[j]
			if a.Month == b.Month && a.Day == b.Day && a.Year < b.Year {
				return a.String(), true
			}
		}
	}
	return "", false
}

// Patterns are the label-anchored date expressions, most specific first.
// When a pattern has a capture group the group is the value, otherwise the
// whole match is.
var Patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Effective|Issue|Policy)\s*(?:Date)?[:.]?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
	regexp.MustCompile(`(?i)(?:Period|From)[:.]?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
	regexp.MustCompile(`(?i)Date of Issue:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)Policy Period:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)(?:Effective|Issue|Policy)?\s*Date:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)` + monthName),
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
}

// MatchPatterns returns the value of the first pattern that matches text.
func MatchPatterns(text string) (string, bool) {
	for _, re := range Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return m[1], true
		}
		return m[0], true
	}
	return "", false
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize turns a raw date into dash-separated text. Values that parse as
// a date are rendered MM-DD-YYYY.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if t, ok := Parse(s); ok {
		return t.String()
	}
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	return whitespace.ReplaceAllString(s, "-")
}
