package emspace

import "strings"

// frontMatterLines returns how many leading lines of src form a front matter
// block, or 0 when src does not start with one. An unclosed block, or one
// whose first line does not look like metadata, is ordinary Markdown.
func frontMatterLines(src string) int {
	first, _, rest := cutLine(src)
	delim, ok := parseOpeningFrontMatterDelimiter(first)
	if !ok || rest == "" {
		return 0
	}
	second, _, rest := cutLine(rest)
	if !frontMatterMetadataLikely(second) {
		return 0
	}
	count := 2
	for rest != "" {
		var line string
		line, _, rest = cutLine(rest)
		count++
		if strings.TrimSpace(line) == delim {
			return count
		}
	}
	return 0
}

func parseOpeningFrontMatterDelimiter(line string) (string, bool) {
	switch trimmed := strings.TrimSpace(trimBOM(line)); trimmed {
	case "---", "+++", ";;;":
		return trimmed, true
	}
	return "", false
}

func frontMatterMetadataLikely(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.ContainsAny(trimmed, ":=")
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
