// Package diagnosis normalizes free-text diagnosis cells to the
// canonical one-letter category codes A through K.
package diagnosis

import (
	"regexp"
	"strings"
)

// Unknown is the normalized value for text that carries no usable code.
const Unknown = ""

var (
	// A code letter counts only when bounded: a leading letter followed
	// by a separator or end of text, or an interior letter fenced by
	// separators/brackets. Bare words like "BURN" must not match.
	leadingCode  = regexp.MustCompile(`^([A-K])(?:[\s.()\[\]\-:：]|$)`)
	interiorCode = regexp.MustCompile(`[\s.()\[\]\-:：]([A-K])(?:[\s.()\[\]\-:：]|$)`)
	bracketCode  = regexp.MustCompile(`[(\[]([A-K])[)\]]`)
	soleCode     = regexp.MustCompile(`^[A-K]$`)
)

// Normalize maps a raw diagnosis cell to "A".."K", or Unknown when the
// text carries no recognizable code. First match wins: a leading code
// outranks an interior one.
func Normalize(text string) string {
	t := strings.ToUpper(strings.TrimSpace(text))
	if t == "" || t == "UNKNOWN" || t == "-" {
		return Unknown
	}

	if m := leadingCode.FindStringSubmatch(t); m != nil {
		return m[1]
	}

	interior := interiorCode.FindStringSubmatchIndex(t)
	bracket := bracketCode.FindStringSubmatchIndex(t)
	switch {
	case interior != nil && (bracket == nil || interior[0] <= bracket[0]):
		return t[interior[2]:interior[3]]
	case bracket != nil:
		return t[bracket[2]:bracket[3]]
	}

	if soleCode.MatchString(t) {
		return t
	}

	return Unknown
}

// Valid reports whether code is one of the canonical letters A..K.
func Valid(code string) bool {
	return len(code) == 1 && code[0] >= 'A' && code[0] <= 'K'
}
