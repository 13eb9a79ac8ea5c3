package emspace

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	hintGutter  = "    "
	ellipsis    = "…"
	tabExpanded = "    "
)

// HintRenderRequest configures RenderHints.
type HintRenderRequest struct {
	Writer io.Writer
	// Path labels the hints; empty means standard input.
	Path   string
	Source string
	Hints  []Hint
	// Width is the terminal width. Zero disables truncation.
	Width int
	Theme Theme
	// Hyperlinks turns each location header into an OSC 8 link to Path.
	Hyperlinks bool
}

// RenderHints prints each hint as a location header, the source line and a
// caret under the marker. Wide (CJK) characters count as two cells when the
// caret is placed.
func RenderHints(req HintRenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("render hints: writer is nil")
	}
	th := req.Theme
	if th == nil {
		th = BoringTheme()
	}
	st := th.Styles()
	path := req.Path
	if path == "" || path == "-" {
		path = "<stdin>"
	}
	link := ""
	if req.Hyperlinks {
		link = locationURL(req.Path)
	}
	limit := 0
	if req.Width > 0 {
		limit = req.Width - len(hintGutter)
		if limit < 8 {
			limit = 8
		}
	}
	w := bufio.NewWriter(req.Writer)
	for _, h := range req.Hints {
		loc := fmt.Sprintf("%s:%d:%d:", path, h.Line, h.Column)
		fmt.Fprintf(w, "%s %s\n", hyperlink(link, st.Location.render(loc)), st.Message.render(HintMessage(h)))
		pre, marker, post := fitLine(lineAt(req.Source, h.Line), h.Column-1, h.Width, limit)
		fmt.Fprintf(w, "%s%s%s%s\n", hintGutter, st.Source.render(pre), st.Marker.render(marker), st.Source.render(post))
		caret := strings.Repeat(" ", ansi.PrintableRuneWidth(pre)) + strings.Repeat("^", len(marker))
		fmt.Fprintf(w, "%s%s\n", hintGutter, st.Caret.render(caret))
	}
	return w.Flush()
}

// fitLine splits line around the marker at rune column col and shortens both
// sides so the result fits in limit cells, keeping the marker visible.
func fitLine(line string, col, width, limit int) (pre, marker, post string) {
	runes := []rune(line)
	col = max(0, min(col, len(runes)))
	end := min(col+width, len(runes))
	pre = expandTabs(string(runes[:col]))
	marker = string(runes[col:end])
	post = expandTabs(string(runes[end:]))
	if limit <= 0 {
		return pre, marker, post
	}
	if keep := limit * 2 / 3; ansi.PrintableRuneWidth(pre) > keep {
		pre = ellipsis + keepRightWidth(pre, keep-1)
	}
	avail := limit - ansi.PrintableRuneWidth(pre) - ansi.PrintableRuneWidth(marker)
	post = truncateWithEllipsis(post, avail)
	return pre, marker, post
}

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return ellipsis
	}
	return truncate.StringWithTail(text, uint(limit), ellipsis)
}

// keepRightWidth returns the longest suffix of s that fits in limit cells.
func keepRightWidth(s string, limit int) string {
	runes := []rune(s)
	i := len(runes)
	for i > 0 && ansi.PrintableRuneWidth(string(runes[i-1:])) <= limit {
		i--
	}
	return string(runes[i:])
}

func expandTabs(s string) string {
	if strings.IndexByte(s, '\t') < 0 {
		return s
	}
	return strings.ReplaceAll(s, "\t", tabExpanded)
}
