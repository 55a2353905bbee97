package analysis

import "strings"

// Normalize prepares resume text for skill matching: lower-case,
// punctuation replaced with spaces, whitespace collapsed and trimmed.
// Formatting and length checks look at the raw text instead, since
// normalization destroys the signals they measure.
func Normalize(text string) string {
	normalized := strings.ToLower(text)
	normalized = punctuationRe.ReplaceAllString(normalized, " ")
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}
