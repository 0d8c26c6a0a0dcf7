package textmatch

import (
	"regexp"
	"sort"
	"strings"
)

var (
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)

	// Business-entity suffixes removed as whole words during normalization.
	entitySuffixes = map[string]struct{}{
		"inc":          {},
		"incorporated": {},
		"corp":         {},
		"corporation":  {},
		"ltd":          {},
		"limited":      {},
		"llc":          {},
		"llp":          {},
		"plc":          {},
		"co":           {},
		"company":      {},
		"group":        {},
		"holdings":     {},
		"enterprises":  {},
		"industries":   {},
		"gmbh":         {},
		"sa":           {},
	}
)

// Normalize strips surrounding whitespace, lower-cases unless caseSensitive,
// collapses punctuation to spaces, drops business-entity suffixes as whole
// words, and squashes repeated whitespace. Deterministic for identical input.
func Normalize(text string, caseSensitive bool) string {
	cleaned := strings.TrimSpace(text)
	if !caseSensitive {
		cleaned = strings.ToLower(cleaned)
	}

	cleaned = punctuationPattern.ReplaceAllString(cleaned, " ")

	tokens := whitespacePattern.Split(cleaned, -1)
	kept := tokens[:0]
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if _, suffix := entitySuffixes[strings.ToLower(token)]; suffix {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

// ExtractKeywords returns the deduplicated normalized tokens of length > 2,
// sorted for deterministic output.
func ExtractKeywords(text string) []string {
	normalized := Normalize(text, false)
	if normalized == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, token := range strings.Fields(normalized) {
		if len(token) <= 2 {
			continue
		}
		seen[token] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(seen))
	for token := range seen {
		keywords = append(keywords, token)
	}
	sort.Strings(keywords)
	return keywords
}

// Acronym returns the upper-cased first letter of each whitespace-separated
// token in the input.
func Acronym(text string) string {
	var b strings.Builder
	for _, token := range strings.Fields(text) {
		runes := []rune(token)
		if len(runes) == 0 {
			continue
		}
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	return b.String()
}
