package normalization

import (
	"regexp"
	"strings"
)

var nonTagChars = regexp.MustCompile(`[^a-z0-9\s]`)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func ParseInputStringPtr(input *string) *string {
	normalized := ParseInputString(*input)
	return &normalized
}

// NormalizeTag reduces raw tag text to its canonical form: trimmed,
// lowercased, restricted to [a-z0-9\s]. An empty result means the raw
// input carried no usable characters and must be rejected by the caller.
func NormalizeTag(raw string) string {
	return nonTagChars.ReplaceAllString(ParseInputString(raw), "")
}
