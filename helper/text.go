package helper

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	excerptLength  = 150
	wordsPerMinute = 200
)

var (
	nonSlugChars   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases s, drops punctuation and joins words with dashes.
// "My Journey!" becomes "my-journey".
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Excerpt returns the first 150 characters of content, with "..." appended
// when the content was cut.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}

// ReadingTime estimates minutes to read content at 200 words per minute, at least 1.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Underscore converts a camel-cased field name to snake case.
func Underscore(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
