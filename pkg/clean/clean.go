// Package clean sanitizes text coming from the extraction engine before it
// reaches a user: terminal escape sequences, odd unicode forms and control
// characters are removed, and titles can be compared loosely.
package clean

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ansiRegex matches CSI sequences such as colour codes ("\x1b[0;31m").
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

var spaceRegex = regexp.MustCompile(`\s+`)

// Message strips terminal escape sequences and surrounding whitespace from an
// engine error message.
func Message(s string) string {
	return strings.TrimSpace(ansiRegex.ReplaceAllString(s, ""))
}

// Title normalizes a media title for display.
// The result is NFC, has no control characters and single spaces only.
func Title(s string) string {
	s = spaceRegex.ReplaceAllString(Message(s), " ")
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cc)))
	s, _, _ = transform.String(t, s)
	return strings.TrimSpace(s)
}

// Fold lowercases s and removes accents so that "Café" and "cafe" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, strings.ToLower(Title(s)))
	return result
}

// Similarity returns a score between 0 and 1 for how alike two titles are.
func Similarity(a, b string) float64 {
	fa, fb := Fold(a), Fold(b)
	if fa == fb {
		return 1
	}
	return float64(edlib.JaroWinklerSimilarity(fa, fb))
}

// Matches reports whether title contains query or is at least threshold similar.
func Matches(title, query string, threshold float64) bool {
	if query == "" {
		return true
	}
	if strings.Contains(Fold(title), Fold(query)) {
		return true
	}
	return Similarity(title, query) >= threshold
}
