package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares text for storage and comparison:
//   - applies Unicode NFKC normalization (full-width forms, ligatures)
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into single spaces
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
