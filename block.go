package emspace

import "strings"

// blockTracker follows fenced code and $$ math blocks across the lines of one
// pass. A fresh tracker is used for every stage of every call.
type blockTracker struct {
	cfg    Config
	inCode bool
	fence  string
	inMath bool
}

// eligible updates block state for line and reports whether the line may be
// rewritten.
func (b *blockTracker) eligible(line string) bool {
	trim := strings.TrimSpace(line)
	if b.cfg.SkipCodeBlocks && !b.inMath {
		if fence := fenceMarker(trim); fence != "" {
			switch {
			case !b.inCode:
				b.inCode = true
				b.fence = fence
			case fence == b.fence:
				b.inCode = false
				b.fence = ""
			}
			return false
		}
	}
	if !b.inCode && strings.HasPrefix(trim, "$$") {
		if !isMathOneLiner(trim) {
			b.inMath = !b.inMath
		}
		return false
	}
	if b.inCode || b.inMath {
		return false
	}
	return !isThematicBreak(trim)
}

func fenceMarker(trim string) string {
	if strings.HasPrefix(trim, "```") {
		return "```"
	}
	if strings.HasPrefix(trim, "~~~") {
		return "~~~"
	}
	return ""
}

// isMathOneLiner reports whether trim is a complete $$...$$ on one line. A
// bare "$$" is a delimiter, not a one-liner.
func isMathOneLiner(trim string) bool {
	return len(trim) >= 4 && strings.HasPrefix(trim, "$$") && strings.HasSuffix(trim, "$$")
}

// isThematicBreak matches ***, - - - and friends. Blanks between the
// characters are allowed.
func isThematicBreak(trim string) bool {
	if len(trim) < 3 {
		return false
	}
	ch := trim[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(trim); i++ {
		switch trim[i] {
		case ch:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// cutLine splits the first line off s. eol holds the terminator exactly as
// found ("\n", "\r\n" or "" at end of input).
func cutLine(s string) (line, eol, rest string) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", ""
	}
	line, rest = s[:i], s[i+1:]
	eol = "\n"
	if strings.HasSuffix(line, "\r") {
		line = line[:len(line)-1]
		eol = "\r\n"
	}
	return line, eol, rest
}
