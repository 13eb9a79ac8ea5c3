package emspace

import "testing"

func TestIsCJK(t *testing.T) {
	t.Parallel()
	for _, r := range []rune{'中', '文', 0x4E00, 0x9FFF} {
		if !IsCJK(r) {
			t.Fatalf("expected %U to be CJK", r)
		}
	}
	for _, r := range []rune{'a', '1', '。', '，', '한', 0x3400, ' '} {
		if IsCJK(r) {
			t.Fatalf("expected %U not to be CJK", r)
		}
	}
}

func TestIsAlnum(t *testing.T) {
	t.Parallel()
	for _, r := range []rune{'a', 'Z', '0', '9'} {
		if !IsAlnum(r) {
			t.Fatalf("expected %q to be alnum", r)
		}
	}
	for _, r := range []rune{'_', '-', 'é', '中', 'Ａ'} {
		if IsAlnum(r) {
			t.Fatalf("expected %q not to be alnum", r)
		}
	}
}

func TestIsProblematicBoundary(t *testing.T) {
	t.Parallel()
	yes := []rune{'中', '。', '「', '」', '“', '”', '‘', '한', '，', '！', 'Ａ', 'ｱ'}
	for _, r := range yes {
		if !IsProblematicBoundary(r) {
			t.Fatalf("expected %U to be a problematic boundary", r)
		}
	}
	no := []rune{'a', '.', ',', '"', ' ', 'é', 0xFFFD}
	for _, r := range no {
		if IsProblematicBoundary(r) {
			t.Fatalf("expected %U not to be a problematic boundary", r)
		}
	}
}
