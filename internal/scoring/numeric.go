package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// Thousands-separated integers come first so "1,200" is read as 1200, not 1.
// Every form must be followed by a non-digit or the end of text, so a
// malformed group such as "1,2345" falls back to the plain "1".
var numberPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?|\.\d+)(?:\D|$)`)

// FirstNumber returns the first integer or decimal token in text.
// "approximately 3.8 years" yields 3.8. Signs are not read: answers are
// counts, and a leading hyphen is usually a list dash.
func FirstNumber(text string) (float64, bool) {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
