package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CleanText applies NFKC normalization (non-breaking spaces become plain
// spaces, full-width digits become ASCII) and collapses whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// FoldAccents lowercases text and strips combining marks
func FoldAccents(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return folded
}

// CreateSearchTerms splits a free-text address query into lowercase terms.
// Commas act as separators so "Sector 62, Noida" yields ["sector", "62", "noida"].
func CreateSearchTerms(query string) []string {
	normalized := FoldAccents(CleanText(strings.ReplaceAll(query, ",", " ")))
	if normalized == "" {
		return []string{}
	}
	return strings.Fields(normalized)
}

// EscapeLike escapes LIKE wildcards so a term matches literally with ESCAPE '\'.
func EscapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
