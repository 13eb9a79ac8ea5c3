package emspace

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func englishConfig() Config {
	cfg := DefaultConfig()
	cfg.SpaceBetweenEnglishAndBold = true
	return cfg
}

func TestFormat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		cfg  Config
		in   string
		want string
	}{
		{name: "bold between cjk", cfg: DefaultConfig(), in: "中文**加粗**中文", want: "中文 **加粗** 中文"},
		{name: "bold alone", cfg: DefaultConfig(), in: "**加粗内容**", want: "**加粗内容**"},
		{name: "english default", cfg: DefaultConfig(), in: "Word**Bold**Word", want: "Word**Bold**Word"},
		{name: "english enabled", cfg: englishConfig(), in: "Word**Bold**Word", want: "Word **Bold** Word"},
		{name: "trim bold", cfg: DefaultConfig(), in: "**  Content  **", want: "**Content**"},
		{name: "trim italic", cfg: DefaultConfig(), in: "*  Content  *", want: "*Content*"},
		{name: "trim then space", cfg: DefaultConfig(), in: "中文**  加粗  **中文", want: "中文 **加粗** 中文"},
		{name: "list item", cfg: DefaultConfig(), in: "* List Item", want: "* List Item"},
		{name: "list item with bold", cfg: DefaultConfig(), in: "* **Bold Item**", want: "* **Bold Item**"},
		{name: "list item trims bold", cfg: DefaultConfig(), in: "* **  Bold Item  **", want: "* **Bold Item**"},
		{name: "list item with lone star", cfg: DefaultConfig(), in: "* Use *args in Python", want: "* Use *args in Python"},
		{name: "list item with spaced star", cfg: DefaultConfig(), in: "* 5 * 3 = 15", want: "* 5 *3 = 15"},
		{name: "list item after other bullet", cfg: DefaultConfig(), in: "- a\n* Use *args here", want: "- a\n* Use *args here"},
		{name: "indented list item", cfg: DefaultConfig(), in: "  * 中文**粗**", want: "  * 中文 **粗**"},
		{name: "triple", cfg: DefaultConfig(), in: "中文***粗斜***中文", want: "中文 ***粗斜*** 中文"},
		{name: "italic between cjk", cfg: DefaultConfig(), in: "中文*斜体*中文", want: "中文 *斜体* 中文"},
		{name: "italic next to english", cfg: DefaultConfig(), in: "abc*it*def", want: "abc*it*def"},
		{name: "already spaced", cfg: DefaultConfig(), in: "中文 **加粗** 中文", want: "中文 **加粗** 中文"},
		{name: "unterminated keeps opening space", cfg: DefaultConfig(), in: "中文**加粗", want: "中文 **加粗"},
		{name: "same width toggles", cfg: englishConfig(), in: "**a**b**c**", want: "**a** b **c**"},
		{name: "empty span kept", cfg: DefaultConfig(), in: "** **", want: "** **"},
		{name: "long star run inert", cfg: DefaultConfig(), in: "中文****中文", want: "中文****中文"},
		{name: "inline code", cfg: DefaultConfig(), in: "中文`**code**`中文", want: "中文`**code**`中文"},
		{name: "inline code then bold", cfg: DefaultConfig(), in: "`a*b`中文**粗**", want: "`a*b`中文 **粗**"},
		{name: "inline code not skipped", cfg: Config{SpaceBetweenChineseAndBold: true}, in: "`中文**粗**`", want: "`中文 **粗**`"},
		{name: "inline math", cfg: DefaultConfig(), in: "$a*b*c$ 中文*斜*", want: "$a*b*c$ 中文 *斜*"},
		{name: "escaped dollar", cfg: DefaultConfig(), in: `\$5 中文**粗**`, want: `\$5 中文 **粗**`},
		{name: "thematic break", cfg: DefaultConfig(), in: "***", want: "***"},
		{name: "spaced thematic break", cfg: DefaultConfig(), in: "* * *", want: "* * *"},
		{name: "no markers", cfg: DefaultConfig(), in: "纯文本，没有标记。", want: "纯文本，没有标记。"},
		{name: "empty", cfg: DefaultConfig(), in: "", want: ""},
		{name: "all disabled", cfg: Config{}, in: "中文**  加粗  **中文", want: "中文**  加粗  **中文"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Format(tc.in, tc.cfg)
			if got != tc.want {
				t.Fatalf("Format(%q)=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatBlocks(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced code",
			in:   "```\n中文**加粗**中文\n```\n中文**粗**\n",
			want: "```\n中文**加粗**中文\n```\n中文 **粗**\n",
		},
		{
			name: "fence closes on same marker only",
			in:   "```go\n~~~\n中文**粗**\n```\n中文**粗**\n",
			want: "```go\n~~~\n中文**粗**\n```\n中文 **粗**\n",
		},
		{
			name: "tilde fence",
			in:   "~~~\n*  x  *\n~~~\n",
			want: "~~~\n*  x  *\n~~~\n",
		},
		{
			name: "math block",
			in:   "$$\na**b**中文\n$$\n中文**粗**",
			want: "$$\na**b**中文\n$$\n中文 **粗**",
		},
		{
			name: "math one-liner",
			in:   "$$x*y$$\n中文**粗**",
			want: "$$x*y$$\n中文 **粗**",
		},
		{
			name: "crlf",
			in:   "中文**加粗**中文\r\n第二行\r\n",
			want: "中文 **加粗** 中文\r\n第二行\r\n",
		},
		{
			name: "front matter",
			in:   "---\ntitle: **x**中文\n---\n中文**粗**\n",
			want: "---\ntitle: **x**中文\n---\n中文 **粗**\n",
		},
		{
			name: "unclosed front matter",
			in:   "---\ntitle: 中文**粗**\n",
			want: "---\ntitle: 中文 **粗**\n",
		},
		{
			name: "blank lines kept",
			in:   "\n\n中文**粗**\n\n",
			want: "\n\n中文 **粗**\n\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Format(tc.in, DefaultConfig())
			if got != tc.want {
				t.Fatalf("Format(%q)=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatFencesWithoutSkip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipCodeBlocks = false
	got := Format("```\n中文**粗**\n```\n", cfg)
	want := "```\n中文 **粗**\n```\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatFrontMatterWithoutSkip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipFrontMatter = false
	got := Format("---\ntitle: 中文**粗**\n---\n", cfg)
	want := "---\ntitle: 中文 **粗**\n---\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatIdempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"中文**加粗**中文",
		"中文***粗斜***中文*斜*中文",
		"*  Content  *和**  粗  **",
		"** **中文",
		"* **  Bold Item  **",
		"a ** b ** c * d *",
		"中文**加粗",
		"`x`中文**粗**$y*z$中文",
	}
	for _, cfg := range []Config{DefaultConfig(), englishConfig()} {
		for _, in := range inputs {
			once := Format(in, cfg)
			twice := Format(once, cfg)
			if once != twice {
				t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
			}
		}
	}
}

func TestFormatNoSpaceInsideMarkers(t *testing.T) {
	cases := map[string]string{
		"中文**加粗**中文":   "加粗",
		"中文***粗斜***中文": "粗斜",
		"中文*斜*中文":     "斜",
	}
	for in, inner := range cases {
		got := Format(in, DefaultConfig())
		if !strings.Contains(got, "*"+inner+"*") {
			t.Fatalf("Format(%q)=%q changed the inside of the span", in, got)
		}
	}
}

func TestFormatConcurrent(t *testing.T) {
	src := strings.Repeat("中文**加粗**中文 *斜*体 `**code**`\n", 64)
	want := Format(src, DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if got := Format(src, DefaultConfig()); got != want {
					t.Errorf("concurrent Format mismatch")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFormatPassesThroughNUL(t *testing.T) {
	in := "中文**粗**\x00"
	if got := Format(in, DefaultConfig()); got != in {
		t.Fatalf("expected line with NUL untouched, got %q", got)
	}
}

func TestFormatStream(t *testing.T) {
	var out bytes.Buffer
	res, err := FormatStream(FormatRequest{
		Reader: strings.NewReader("中文**加粗**中文\n"),
		Writer: &out,
		Config: DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("FormatStream: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected change")
	}
	if res.Original != "中文**加粗**中文\n" {
		t.Fatalf("unexpected original %q", res.Original)
	}
	if out.String() != "中文 **加粗** 中文\n" || res.Formatted != out.String() {
		t.Fatalf("unexpected output %q / %q", out.String(), res.Formatted)
	}

	res, err = FormatStream(FormatRequest{Reader: strings.NewReader("plain\n"), Config: DefaultConfig()})
	if err != nil {
		t.Fatalf("FormatStream without writer: %v", err)
	}
	if res.Changed {
		t.Fatalf("expected no change for plain text")
	}
}

func TestFormatStreamRejectsBinary(t *testing.T) {
	_, err := FormatStream(FormatRequest{Reader: bytes.NewReader([]byte{'a', 0x00, 'b'})})
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	if _, err := FormatStream(FormatRequest{}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}
