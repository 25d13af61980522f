package author

import (
	"regexp"
	"strings"
)

// breakingMarkerPattern matches a line-leading * glued to an identifier and
// followed by whitespace or end of line, with no further * on the line.
// The slide renderer's front-matter parser reads such sequences as YAML
// alias directives. Paired emphasis (*italic*, **bold**) never matches:
// bold puts a second * right after the first, and a closing delimiter
// leaves a * later on the line.
var breakingMarkerPattern = regexp.MustCompile(`(?m)^([ \t]*)\*([A-Za-z_][A-Za-z0-9_-]*)((?:[ \t][^*\n]*)?)$`)

// boldWrappedListPattern matches a list item captured inside a bold span,
// e.g. "**- shipped the login flow**".
var boldWrappedListPattern = regexp.MustCompile(`^([ \t]*)\*\*\s*-\s+(.*?)\s*\*\*\s*$`)

var listItemPattern = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d+[.)])\s+`)

// SanitizeMarkup neutralizes markup the slide renderer would misread and
// returns the cleaned content plus the count of breaking markers escaped.
// Applying it to already-clean content is a no-op, so it can run any
// number of times without double-escaping.
func SanitizeMarkup(content string) (string, int) {
	if content == "" {
		return content, 0
	}

	out := unwrapBoldLists(content)

	count := len(breakingMarkerPattern.FindAllStringIndex(out, -1))
	if count > 0 {
		out = breakingMarkerPattern.ReplaceAllString(out, `$1\*$2$3`)
	}

	return separateBlocks(out), count
}

// unwrapBoldLists moves list markers outside bold spans: a renderer cannot
// nest a list item inside emphasis, so "**- item**" becomes "- **item**".
func unwrapBoldLists(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if m := boldWrappedListPattern.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + "- **" + m[2] + "**"
		}
	}
	return strings.Join(lines, "\n")
}

// separateBlocks inserts the blank line a strict renderer needs between a
// prose paragraph and a list or heading that follows it, and between a
// list and trailing prose. Lines already separated stay untouched.
func separateBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && needsSeparator(lines[i-1], line) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func needsSeparator(prev, cur string) bool {
	if strings.TrimSpace(prev) == "" || strings.TrimSpace(cur) == "" {
		return false
	}
	// Indented continuations belong to the item above them.
	if strings.HasPrefix(cur, "  ") {
		return false
	}

	prevList := listItemPattern.MatchString(prev)
	curList := listItemPattern.MatchString(cur)
	curHeading := strings.HasPrefix(strings.TrimSpace(cur), "#")

	switch {
	case curHeading:
		return true
	case curList && !prevList:
		return true
	case prevList && !curList:
		return true
	default:
		return false
	}
}

// hasBreakingMarkers reports whether content still carries sequences the
// renderer would misread. The validator uses the same detection the
// sanitizer rewrites, so the two can never disagree.
func hasBreakingMarkers(content string) bool {
	return breakingMarkerPattern.MatchString(content)
}

// hasNestedBlocks reports block elements glued to prose without a
// separating blank line.
func hasNestedBlocks(content string) bool {
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if needsSeparator(lines[i-1], lines[i]) {
			return true
		}
	}
	return false
}
