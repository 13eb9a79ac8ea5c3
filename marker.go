package emspace

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// stageMode selects what the scanner does at marker transitions.
type stageMode uint8

const (
	// stageTrim removes blanks just inside *, ** and *** spans.
	stageTrim stageMode = iota
	// stageBold spaces ** and *** spans away from CJK or ASCII neighbours.
	stageBold
	// stageItalic spaces * spans away from CJK neighbours.
	stageItalic
)

const maxMarkerWidth = 3

// markerFrame is an open marker. mark is the output length just after the
// opening marker; closing never trims below it.
type markerFrame struct {
	width int
	mark  int
}

// lineScanner holds the per-line buffers of the marker state machine. It is
// pooled; all state is reset at the start of each line.
type lineScanner struct {
	in      []rune
	out     []rune
	stack   []markerFrame
	regions []region

	inArr      [256]rune
	outArr     [272]rune
	stackArr   [16]markerFrame
	regionsArr [8]region
}

var scannerPool = sync.Pool{
	New: func() any {
		return &lineScanner{}
	},
}

func (s *lineScanner) reset() {
	if s.in == nil {
		s.in = s.inArr[:0]
		s.out = s.outArr[:0]
		s.stack = s.stackArr[:0]
		s.regions = s.regionsArr[:0]
	}
	s.in = s.in[:0]
	s.out = s.out[:0]
	s.stack = s.stack[:0]
}

// release drops references to caller strings before the scanner goes back
// to the pool.
func (s *lineScanner) release() {
	for i := range s.regions {
		s.regions[i] = region{}
	}
	s.regions = s.regions[:0]
}

// processLine protects, scans and restores a single line.
func (s *lineScanner) processLine(line string, mode stageMode, cfg Config) string {
	s.reset()
	protected, regions := protectLine(line, cfg, s.regions)
	s.regions = regions
	out := s.scan(protected, mode, cfg)
	if out == protected {
		return line
	}
	return restoreLine(out, regions)
}

// scan runs one left-to-right pass over an already protected line. Frames
// still open at the end of the line are dropped; whatever spacing they
// already caused stays.
func (s *lineScanner) scan(line string, mode stageMode, cfg Config) string {
	for _, r := range line {
		s.in = append(s.in, r)
	}
	in := s.in
	for i := 0; i < len(in); {
		if in[i] != '*' {
			s.out = append(s.out, in[i])
			i++
			continue
		}
		n := starRun(in, i)
		if n > maxMarkerWidth {
			s.out = append(s.out, in[i:i+n]...)
			i += n
			continue
		}
		switch mode {
		case stageTrim:
			i = s.trimMarker(in, i, n)
		case stageBold:
			i = s.boldMarker(in, i, n, cfg)
		case stageItalic:
			i = s.italicMarker(in, i, n)
		}
	}
	if sameRunes(s.out, in) {
		return line
	}
	return string(s.out)
}

func sameRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *lineScanner) trimMarker(in []rune, i, width int) int {
	end := i + width
	if s.closes(width) {
		f := s.pop()
		s.trimBlanks(f.mark)
		s.emitStars(width)
		return end
	}
	s.emitStars(width)
	skip := end
	for skip < len(in) && isBlank(in[skip]) {
		skip++
	}
	// Dropping the blanks in "** **" would fuse two runs into "****".
	if skip == len(in) || in[skip] != '*' {
		end = skip
	}
	s.push(width)
	return end
}

func (s *lineScanner) boldMarker(in []rune, i, width int, cfg Config) int {
	end := i + width
	if width < 2 {
		s.emitStars(width)
		return end
	}
	if s.closes(width) {
		s.pop()
		s.emitStars(width)
		next, ok := runeAt(in, end)
		if shouldAddSpaceAfter(next, ok, cfg) {
			s.out = append(s.out, ' ')
		}
		return end
	}
	prev, ok := s.last()
	if shouldAddSpaceBefore(prev, ok, cfg) {
		s.out = append(s.out, ' ')
	}
	s.emitStars(width)
	s.push(width)
	return end
}

// italicMarker only reacts to single stars. ** and *** runs are copied whole
// so their stars never toggle the italic state.
func (s *lineScanner) italicMarker(in []rune, i, width int) int {
	end := i + width
	if width != 1 {
		s.emitStars(width)
		return end
	}
	if s.closes(1) {
		s.pop()
		s.emitStars(1)
		if next, ok := runeAt(in, end); ok && IsCJK(next) {
			s.out = append(s.out, ' ')
		}
		return end
	}
	if prev, ok := s.last(); ok && !isBlank(prev) && IsCJK(prev) {
		s.out = append(s.out, ' ')
	}
	s.emitStars(1)
	s.push(1)
	return end
}

func (s *lineScanner) closes(width int) bool {
	return len(s.stack) > 0 && s.stack[len(s.stack)-1].width == width
}

func (s *lineScanner) push(width int) {
	s.stack = append(s.stack, markerFrame{width: width, mark: len(s.out)})
}

func (s *lineScanner) pop() markerFrame {
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

// trimBlanks removes trailing blanks from the output down to mark. It stops
// if the trim would leave a star at the end, so an empty span never fuses
// with the marker that follows.
func (s *lineScanner) trimBlanks(mark int) {
	n := len(s.out)
	for n > mark && isBlank(s.out[n-1]) {
		n--
	}
	if n > 0 && n < len(s.out) && s.out[n-1] == '*' {
		return
	}
	s.out = s.out[:n]
}

func (s *lineScanner) emitStars(n int) {
	for ; n > 0; n-- {
		s.out = append(s.out, '*')
	}
}

func (s *lineScanner) last() (rune, bool) {
	if len(s.out) == 0 {
		return 0, false
	}
	return s.out[len(s.out)-1], true
}

func runeAt(in []rune, i int) (rune, bool) {
	if i < 0 || i >= len(in) {
		return 0, false
	}
	return in[i], true
}

func starRun(in []rune, i int) int {
	j := i
	for j < len(in) && in[j] == '*' {
		j++
	}
	return j - i
}

// processDocument runs one stage over every eligible line of text.
func processDocument(text string, mode stageMode, cfg Config) string {
	if strings.IndexByte(text, '*') < 0 {
		return text
	}
	s := scannerPool.Get().(*lineScanner)
	defer func() {
		s.release()
		scannerPool.Put(s)
	}()

	skip := 0
	if cfg.SkipFrontMatter {
		skip = frontMatterLines(text)
	}
	tracker := blockTracker{cfg: cfg}
	var b strings.Builder
	b.Grow(len(text) + len(text)/16)
	changed := false
	for n, rest := 0, text; rest != ""; n++ {
		line, eol, next := cutLine(rest)
		rest = next
		if n >= skip && tracker.eligible(line) && lineNeedsScan(line) {
			if out := s.processLine(line, mode, cfg); out != line {
				line = out
				changed = true
			}
		}
		b.WriteString(line)
		b.WriteString(eol)
	}
	if !changed {
		return text
	}
	return b.String()
}

// lineNeedsScan skips lines without markers and lines that already hold the
// placeholder delimiter, which only the plain string API can deliver.
func lineNeedsScan(line string) bool {
	return strings.IndexByte(line, '*') >= 0 && strings.IndexRune(line, placeholderDelim) < 0 && utf8.ValidString(line)
}
