// Package emspace normalizes whitespace around Markdown emphasis markers.
//
// Regular expressions cannot tell an opening * or ** from a closing one, so
// linters tend to get emphasis spacing wrong, especially in Chinese text
// where words are not separated by spaces. emspace scans each line with a
// small state machine that keeps a stack of open markers keyed by width
// (*, ** and ***) and rewrites the text around them:
//
//   - blanks just inside a span are removed: "**  bold  **" becomes "**bold**"
//   - bold and bold-italic spans get one space towards adjacent CJK text, and
//     optionally towards ASCII letters and digits
//   - italic spans get one space towards adjacent CJK text
//
// Fenced code, $$ math blocks, front matter, inline code, inline math and
// list bullets are left alone.
//
// Example:
//
//	out := emspace.Format("中文**加粗**中文\n", emspace.DefaultConfig())
//	fmt.Print(out) // 中文 **加粗** 中文
//
// Format is a pure function of its input and Config and is idempotent.
// FormatStream and HTTPFormat wrap it with input validation and I/O. Hints
// reports problematic marker boundaries without changing the document, for
// editors and terminals that want to show them.
package emspace
