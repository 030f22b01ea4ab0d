package state

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"attachmi/internal/models"
)

// foldMarks decomposes text and drops combining marks, so "Résumé"
// normalizes the same as "Resume".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize lower-cases text and strips every rune that is not a word
// character or whitespace. Deliberately lossy: search is accent- and
// punctuation-insensitive.
func Normalize(raw string) string {
	folded, _, err := transform.String(foldMarks, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matches reports whether the normalized query is a substring of any of the
// attachment's normalized name, description, or notes.
func Matches(a models.Attachment, normalizedQuery string) bool {
	if strings.TrimSpace(normalizedQuery) == "" {
		return true
	}
	return strings.Contains(Normalize(a.Name), normalizedQuery) ||
		strings.Contains(Normalize(a.Description), normalizedQuery) ||
		strings.Contains(Normalize(a.Notes), normalizedQuery)
}

// Filter returns the attachments matching searchText, preserving order.
// Empty or whitespace-only search text matches everything.
func Filter(attachments []models.Attachment, searchText string) []models.Attachment {
	query := Normalize(searchText)
	if strings.TrimSpace(query) == "" {
		out := make([]models.Attachment, len(attachments))
		copy(out, attachments)
		return out
	}

	out := []models.Attachment{}
	for _, a := range attachments {
		if Matches(a, query) {
			out = append(out, a)
		}
	}
	return out
}
