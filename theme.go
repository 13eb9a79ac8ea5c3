package emspace

import (
	"sort"
	"strings"
)

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiFaint     = "\x1b[2m"
	ansiUnderline = "\x1b[4m"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

func (s Style) render(text string) string {
	if s.Prefix == "" || text == "" {
		return text
	}
	return s.Prefix + text + ansiReset
}

// Styles groups the semantic styles used when printing hints.
type Styles struct {
	Location Style
	Message  Style
	Source   Style
	Marker   Style
	Caret    Style
}

// Theme provides named styles for hint output.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString(p)
	}
	return Style{Prefix: b.String()}
}

func fg(code string) string {
	return "\x1b[38;5;" + code + "m"
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: Styles{
		Location: style(ansiBold),
		Message:  style(fg("214")),
		Source:   style(),
		Marker:   style(ansiBold, fg("203")),
		Caret:    style(ansiBold, fg("203")),
	}},
	"dim": theme{name: "dim", styles: Styles{
		Location: style(ansiUnderline),
		Message:  style(ansiFaint),
		Source:   style(ansiFaint),
		Marker:   style(ansiBold),
		Caret:    style(ansiBold),
	}},
	"boring": theme{name: "boring", styles: Styles{}},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	t, ok := builtinThemes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// BoringTheme returns the theme without any ANSI styling.
func BoringTheme() Theme {
	return builtinThemes["boring"]
}
