package validation

import (
	"regexp"
	"strings"
)

var (
	linkPattern  = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	imagePattern = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
)

// ValidMarkdown is a coarse sanity check, not a markdown parser. It accepts
// text whose square brackets and parentheses are balanced in count, and whose
// link ("](") and image ("![") fragments appear in a well-formed
// [text](url) / ![alt](url) shape somewhere in the input. Empty input fails.
func ValidMarkdown(content string) bool {
	if content == "" {
		return false
	}
	if strings.Count(content, "[") != strings.Count(content, "]") {
		return false
	}
	if strings.Count(content, "(") != strings.Count(content, ")") {
		return false
	}
	if strings.Contains(content, "](") && !linkPattern.MatchString(content) {
		return false
	}
	if strings.Contains(content, "![") && !imagePattern.MatchString(content) {
		return false
	}
	return true
}
