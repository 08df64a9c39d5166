// Package contentfilter flags review text that should not be published:
// profanity, abusive complaints and lecturer names.
package contentfilter

import (
	"regexp"
	"strings"
)

// defaultTerms are matched as case-insensitive substrings. Deployment
// specific terms (slurs in local languages) are added through configuration.
var defaultTerms = []string{
	"fuck",
	"shit",
	"bitch",
	"bastard",
	"asshole",
	"dickhead",
	"bodoh",
	"bangang",
	"celaka",
	"pukimak",
	"worst lecturer",
	"useless lecturer",
	"stupid lecturer",
	"waste of time",
	"hate this lecturer",
	"hate this subject",
}

// titlePattern matches an academic or formal title in any case followed by a
// capitalised word, e.g. "Dr Smith", "prof. Aminah", "Puan Siti", "Dr SMITH".
var titlePattern = regexp.MustCompile(`\b(?i:dr|prof|professor|madam|mdm|puan|pn|encik|dato|datuk|tuan)\.?\s+\p{Lu}[\p{L}'-]*`)

// courtesyPattern matches titles that double as ordinary words ("miss",
// "ms", "en"). They only count when written capitalised, and the following
// word is checked against notNames.
var courtesyPattern = regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Miss|Sir|En|Cik)\.?\s+(\p{Lu}[\p{L}'-]*)`)

// notNames are capitalised words that commonly follow a courtesy title
// without naming anyone: "Miss Friday", "Ms Teams".
var notNames = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {}, "saturday": {}, "sunday": {},
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {}, "june": {}, "july": {},
	"august": {}, "september": {}, "october": {}, "november": {}, "december": {},
	"teams": {}, "word": {}, "excel": {}, "powerpoint": {}, "outlook": {}, "office": {}, "forms": {},
}

func mentionsLecturer(text string) bool {
	if titlePattern.MatchString(text) {
		return true
	}
	for _, m := range courtesyPattern.FindAllStringSubmatch(text, -1) {
		if _, skip := notNames[strings.ToLower(m[1])]; !skip {
			return true
		}
	}
	return false
}

// LecturerNameMatch is reported when the title pattern matches.
const LecturerNameMatch = "lecturer name"

// Result describes why a text was restricted.
type Result struct {
	Restricted bool     `json:"restricted"`
	Matches    []string `json:"matches,omitempty"`
}

// Filter holds a compiled denylist.
type Filter struct {
	terms []string
}

// New builds a filter from the default denylist plus extra terms.
func New(extraTerms ...string) *Filter {
	seen := make(map[string]struct{}, len(defaultTerms)+len(extraTerms))
	terms := make([]string, 0, len(defaultTerms)+len(extraTerms))
	for _, raw := range append(append([]string{}, defaultTerms...), extraTerms...) {
		term := normalize(raw)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return &Filter{terms: terms}
}

// Check reports every denylisted term and the lecturer-name pattern found in text.
func (f *Filter) Check(text string) Result {
	var res Result
	lowered := normalize(text)
	for _, term := range f.terms {
		if strings.Contains(lowered, term) {
			res.Matches = append(res.Matches, term)
		}
	}
	if mentionsLecturer(text) {
		res.Matches = append(res.Matches, LecturerNameMatch)
	}
	res.Restricted = len(res.Matches) > 0
	return res
}

// Restricted reports whether text contains restricted content.
func (f *Filter) Restricted(text string) bool {
	return f.Check(text).Restricted
}

// normalize lower-cases and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
