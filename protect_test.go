package emspace

import "testing"

func TestProtectLineRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	lines := []string{
		"* item with `code` and $x*y$",
		"`a` `b` $c$ $d$",
		"plain line",
		"  * nested `**` item",
		"$$",
		"cost \\$5 and $10",
	}
	for _, line := range lines {
		protected, regions := protectLine(line, cfg, nil)
		if got := restoreLine(protected, regions); got != line {
			t.Fatalf("restore(%q)=%q", line, got)
		}
	}
}

func TestProtectLineRegions(t *testing.T) {
	t.Parallel()
	protected, regions := protectLine("* a `b*c` $d*e$ f", DefaultConfig(), nil)
	want := placeholder(0) + " a " + placeholder(1) + " " + placeholder(2) + " f"
	if protected != want {
		t.Fatalf("protected=%q want %q", protected, want)
	}
	originals := []string{"*", "`b*c`", "$d*e$"}
	if len(regions) != len(originals) {
		t.Fatalf("expected %d regions, got %d", len(originals), len(regions))
	}
	for i, orig := range originals {
		if regions[i].original != orig {
			t.Fatalf("region %d=%q want %q", i, regions[i].original, orig)
		}
	}
}

func TestProtectLineKeepsCodeWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipInlineCode = false
	protected, regions := protectLine("`**`", cfg, nil)
	if protected != "`**`" || len(regions) != 0 {
		t.Fatalf("expected no protection, got %q %v", protected, regions)
	}
}

func TestListMarkerPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		"* List Item":         1,
		"   * indented":       4,
		"*\titem":             1,
		"* **Bold Item**":     1,
		"*  Content  *":       0,
		"* item `*` more":     1,
		"* Use *args here":    1,
		"* 5 * 3 = 15":        1,
		"*  padded *x*":       1,
		"*  a * b":            1,
		"**bold**":            0,
		"*italic*":            0,
		"*":                   0,
		"text * not a bullet": 0,
	}
	for line, want := range cases {
		if got := listMarkerPrefix(line); got != want {
			t.Fatalf("listMarkerPrefix(%q)=%d want %d", line, got, want)
		}
	}
}

func TestMathSpans(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want [][2]int
	}{
		{in: "$a$", want: [][2]int{{0, 3}}},
		{in: "x $a$ y $b$", want: [][2]int{{2, 5}, {8, 11}}},
		{in: "$$", want: nil},
		{in: "$$a$", want: [][2]int{{1, 4}}},
		{in: `\$a$`, want: nil},
		{in: "$unterminated", want: nil},
	}
	for _, tc := range cases {
		got := mathSpans(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("mathSpans(%q)=%v want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("mathSpans(%q)=%v want %v", tc.in, got, tc.want)
			}
		}
	}
}
