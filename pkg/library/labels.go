package library

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// Humanize turns a field identifier into lower-case words:
// "full_name" becomes "full name".
func Humanize(name string) string {
	return strings.Join(words(name), " ")
}

// Title turns a field identifier into a display label:
// "aadhaar_number" becomes "Aadhaar Number".
func Title(name string) string {
	parts := words(name)
	for i, word := range parts {
		r, size := utf8.DecodeRuneInString(word)
		parts[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(parts, " ")
}

// FormatDocumentType renders a document identifier for display. It is the
// same transformation as Title.
func FormatDocumentType(id string) string {
	return Title(id)
}

func words(name string) []string {
	var out []string
	for _, word := range splitWordsPattern.Split(strings.TrimSpace(name), -1) {
		if word == "" {
			continue
		}
		out = append(out, strings.ToLower(word))
	}
	return out
}
