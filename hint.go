package emspace

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HintSide tells which end of an emphasis span a hint refers to.
type HintSide uint8

const (
	// HintBefore marks the boundary in front of an opening marker.
	HintBefore HintSide = iota + 1
	// HintAfter marks the boundary behind a closing marker.
	HintAfter
)

func (s HintSide) String() string {
	switch s {
	case HintBefore:
		return "before"
	case HintAfter:
		return "after"
	}
	return "unknown"
}

// Span is a half-open byte range of the document.
type Span struct {
	Start int
	End   int
}

func (s Span) overlaps(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// Hint reports an emphasis marker that sits against a problematic boundary
// character. Hints never change the document.
type Hint struct {
	// Line and Column are 1-based; Column counts runes.
	Line   int
	Column int
	// Offset is the byte offset of the marker in the document.
	Offset int
	Side   HintSide
	Width  int
	// Span covers the whole emphasis span, markers included.
	Span Span
}

// HintOption configures Hints.
type HintOption func(*hintConfig)

type hintConfig struct {
	selections []Span
}

// WithSelection suppresses hints whose span overlaps the byte range
// [start, end]. Touching the edge of a span counts as overlap.
func WithSelection(start, end int) HintOption {
	if end < start {
		start, end = end, start
	}
	return func(cfg *hintConfig) {
		cfg.selections = append(cfg.selections, Span{Start: start, End: end})
	}
}

// WithCursor is WithSelection for a collapsed selection.
func WithCursor(pos int) HintOption {
	return WithSelection(pos, pos)
}

// Hints lists emphasis markers whose outer neighbour is a problematic
// boundary character, or whose outer neighbour is text while the inner one
// is CJK punctuation. Blocks and spans skipped by Format are skipped here too.
func Hints(text string, cfg Config, opts ...HintOption) []Hint {
	var hc hintConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&hc)
		}
	}
	skip := 0
	if cfg.SkipFrontMatter {
		skip = frontMatterLines(text)
	}
	tracker := blockTracker{cfg: cfg}
	var hints []Hint
	offset := 0
	for n, rest := 0, text; rest != ""; n++ {
		line, eol, next := cutLine(rest)
		rest = next
		if n >= skip && tracker.eligible(line) && lineNeedsScan(line) {
			hints = lineHints(hints, line, n+1, offset, cfg)
		}
		offset += len(line) + len(eol)
	}
	if len(hc.selections) == 0 {
		return hints
	}
	kept := hints[:0]
	for _, h := range hints {
		if !suppressed(h, hc.selections) {
			kept = append(kept, h)
		}
	}
	return kept
}

func suppressed(h Hint, selections []Span) bool {
	for _, sel := range selections {
		if h.Span.overlaps(sel) {
			return true
		}
	}
	return false
}

type hintFrame struct {
	width int
	index int
}

// origPos maps a rune of the protected line back to the original line.
type origPos struct {
	off int
	col int
}

func lineHints(dst []Hint, line string, lineNo, base int, cfg Config) []Hint {
	protected, regions := protectLine(line, cfg, nil)
	in := []rune(protected)
	pos := originalPositions(in, regions)
	var stack []hintFrame
	for i := 0; i < len(in); {
		if in[i] != '*' {
			i++
			continue
		}
		n := starRun(in, i)
		if n > maxMarkerWidth {
			i += n
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1].width != n {
			stack = append(stack, hintFrame{width: n, index: i})
			i += n
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		span := Span{Start: base + pos[open.index].off, End: base + pos[i+n].off}
		if boundaryNeedsHint(in, open.index-1, open.index+n) {
			dst = append(dst, Hint{
				Line:   lineNo,
				Column: pos[open.index].col + 1,
				Offset: base + pos[open.index].off,
				Side:   HintBefore,
				Width:  n,
				Span:   span,
			})
		}
		if boundaryNeedsHint(in, i+n, i-1) {
			dst = append(dst, Hint{
				Line:   lineNo,
				Column: pos[i].col + 1,
				Offset: base + pos[i].off,
				Side:   HintAfter,
				Width:  n,
				Span:   span,
			})
		}
		i += n
	}
	return dst
}

func boundaryNeedsHint(in []rune, outside, inside int) bool {
	o, ok := runeAt(in, outside)
	if !ok || isBlank(o) || o == placeholderDelim {
		return false
	}
	if IsProblematicBoundary(o) {
		return true
	}
	r, ok := runeAt(in, inside)
	return ok && isBoundaryPunct(r)
}

// isBoundaryPunct is the punctuation part of IsProblematicBoundary. Such a
// character just inside a marker breaks CommonMark flanking when text
// follows the marker directly.
func isBoundaryPunct(r rune) bool {
	return IsProblematicBoundary(r) && !IsCJK(r) && !unicode.Is(unicode.Hangul, r)
}

// originalPositions returns, for every rune index of the protected line (and
// one past the end), the byte offset and rune column in the original line.
func originalPositions(in []rune, regions []region) []origPos {
	pos := make([]origPos, len(in)+1)
	off, col := 0, 0
	for i := 0; i < len(in); {
		if in[i] != placeholderDelim {
			pos[i] = origPos{off: off, col: col}
			off += utf8.RuneLen(in[i])
			col++
			i++
			continue
		}
		j := i + 1
		for j < len(in) && in[j] != placeholderDelim {
			j++
		}
		for k := i; k <= j && k < len(in); k++ {
			pos[k] = origPos{off: off, col: col}
		}
		if idx, err := strconv.Atoi(string(in[i+1 : min(j, len(in))])); err == nil && idx >= 0 && idx < len(regions) {
			text := expandRegion(regions, idx)
			off += len(text)
			col += utf8.RuneCountInString(text)
		}
		i = j + 1
	}
	pos[len(in)] = origPos{off: off, col: col}
	return pos
}

// lineAt returns line n (1-based) of text without its terminator.
func lineAt(text string, n int) string {
	for i := 1; text != ""; i++ {
		line, _, rest := cutLine(text)
		if i == n {
			return line
		}
		text = rest
	}
	return ""
}

// HintMessage describes h in a short human-readable sentence.
func HintMessage(h Hint) string {
	marker := strings.Repeat("*", h.Width)
	if h.Side == HintBefore {
		return "add a space before " + marker
	}
	return "add a space after " + marker
}
