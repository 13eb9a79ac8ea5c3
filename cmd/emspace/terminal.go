package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	diff "github.com/shogoki/gotextdiff"
	"golang.org/x/term"
)

const (
	defaultWidth = 80

	diffAdd    = "\x1b[32m"
	diffDel    = "\x1b[31m"
	diffHunk   = "\x1b[36m"
	diffHeader = "\x1b[1m"
	diffReset  = "\x1b[0m"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if cols, err := strconv.Atoi(value); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}

// unifiedDiff returns a unified diff from before to after, or "" when they
// are equal.
func unifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}
	return string(diff.Diff("a/"+name, []byte(before), "b/"+name, []byte(after)))
}

func colorizeDiff(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		color := ""
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			color = diffHeader
		case strings.HasPrefix(line, "@@"):
			color = diffHunk
		case strings.HasPrefix(line, "+"):
			color = diffAdd
		case strings.HasPrefix(line, "-"):
			color = diffDel
		}
		if color == "" {
			b.WriteString(line)
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		b.WriteString(color)
		b.WriteString(body)
		b.WriteString(diffReset)
		if len(body) < len(line) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
