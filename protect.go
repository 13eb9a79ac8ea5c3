package emspace

import (
	"regexp"
	"strconv"
	"strings"
)

// placeholderDelim brackets protected-region tokens. ValidateInput rejects
// NUL, so it never occurs in prose that reached the scanner.
const placeholderDelim = '\x00'

var codeSpanPattern = regexp.MustCompile("`[^`]+?`")

type region struct {
	token    string
	original string
}

func placeholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}

// protectLine replaces list markers, inline code and inline math with
// placeholder tokens. regions is reused as the backing store for the result.
func protectLine(line string, cfg Config, regions []region) (string, []region) {
	regions = regions[:0]
	if n := listMarkerPrefix(line); n > 0 {
		tok := placeholder(len(regions))
		regions = append(regions, region{token: tok, original: line[:n]})
		line = tok + line[n:]
	}
	if cfg.SkipInlineCode && strings.IndexByte(line, '`') >= 0 {
		line = codeSpanPattern.ReplaceAllStringFunc(line, func(m string) string {
			tok := placeholder(len(regions))
			regions = append(regions, region{token: tok, original: m})
			return tok
		})
	}
	if strings.IndexByte(line, '$') >= 0 {
		if spans := mathSpans(line); len(spans) > 0 {
			var b strings.Builder
			b.Grow(len(line))
			last := 0
			for _, sp := range spans {
				tok := placeholder(len(regions))
				regions = append(regions, region{token: tok, original: line[sp[0]:sp[1]]})
				b.WriteString(line[last:sp[0]])
				b.WriteString(tok)
				last = sp[1]
			}
			b.WriteString(line[last:])
			line = b.String()
		}
	}
	return line, regions
}

// restoreLine undoes protectLine. Later regions may contain earlier tokens,
// so restoration runs newest first.
func restoreLine(line string, regions []region) string {
	for i := len(regions) - 1; i >= 0; i-- {
		line = strings.Replace(line, regions[i].token, regions[i].original, 1)
	}
	return line
}

// expandRegion returns the fully restored text of region i.
func expandRegion(regions []region, i int) string {
	return restoreLine(regions[i].original, regions[:i])
}

// listMarkerPrefix returns the length of a leading "  *" bullet, or 0.
func listMarkerPrefix(line string) int {
	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	if i+1 >= len(line) || line[i] != '*' || !isSpace(line[i+1]) {
		return 0
	}
	if wrapsInItalics(line[i+1:]) {
		return 0
	}
	return i + 1
}

// wrapsInItalics reports whether the text after a leading star reads as a
// padded italic span: two or more blanks after the star and a lone closing
// star, itself preceded by a blank, at the end of the line.
func wrapsInItalics(rest string) bool {
	if len(rest) < 2 || !isSpace(rest[1]) {
		return false
	}
	if strings.IndexByte(rest, '`') >= 0 {
		rest = codeSpanPattern.ReplaceAllString(rest, "")
	}
	if strings.IndexByte(rest, '$') >= 0 {
		rest = dropSpans(rest, mathSpans(rest))
	}
	rest = strings.TrimRight(rest, " \t")
	n := len(rest)
	if n < 2 || rest[n-1] != '*' || !isSpace(rest[n-2]) {
		return false
	}
	return countLoneStars(rest)%2 == 1
}

func dropSpans(s string, spans [][2]int) string {
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp[0]])
		last = sp[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func countLoneStars(s string) int {
	count := 0
	for i := 0; i < len(s); {
		if s[i] != '*' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '*' {
			j++
		}
		if j-i == 1 {
			count++
		}
		i = j
	}
	return count
}

// mathSpans finds $...$ spans with non-empty content. A backslash-escaped
// dollar is literal. Unterminated spans are ignored.
func mathSpans(s string) [][2]int {
	var spans [][2]int
	open := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && s[i+1] == '$' {
				i++
			}
		case '$':
			switch {
			case open < 0, i == open+1:
				open = i
			default:
				spans = append(spans, [2]int{open, i + 1})
				open = -1
			}
		}
	}
	return spans
}
