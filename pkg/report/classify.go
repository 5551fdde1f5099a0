package report

import (
	"errors"
	"sort"
	"strings"
)

// ErrCaseNotFound reports a classification or check request whose key
// matches no stored surgical case.
var ErrCaseNotFound = errors.New("case not found")

// ErrInvalidClassification reports a diagnosis code outside A..K or a
// non-positive count in a classification payload.
var ErrInvalidClassification = errors.New("diagnosis codes must be single letters A..K with positive counts")

// ValidClassificationCode reports whether code is a single letter in
// the A..K category range, ignoring case and surrounding whitespace.
func ValidClassificationCode(code string) bool {
	c := strings.ToUpper(strings.TrimSpace(code))
	return len(c) == 1 && c[0] >= 'A' && c[0] <= 'K'
}

// normalizeCodeCounts validates and canonicalizes a code->count map.
// Codes are upper-cased and trimmed; duplicate spellings of the same
// code accumulate. An empty map is valid and clears the manual
// classification of a case.
func normalizeCodeCounts(counts map[string]int) (map[string]int, error) {
	out := make(map[string]int, len(counts))
	for code, count := range counts {
		if !ValidClassificationCode(code) || count <= 0 {
			return nil, ErrInvalidClassification
		}
		out[strings.ToUpper(strings.TrimSpace(code))] += count
	}
	return out, nil
}

func sortedCodes(counts map[string]int) []string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
