package orchestrate

import "testing"

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0.0s"},
		{500, "0.5s"},
		{1200, "1.2s"},
		{65000, "1m5s"},
		{3700000, "1h1m"},
	}

	for _, tt := range tests {
		got := FormatDurationShort(tt.ms)
		if got != tt.want {
			t.Errorf("FormatDurationShort(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 7, "ab...ij"},
		{"hello world!", 9, "hel...ld!"},
		{"abcd", 3, "abc"},
	}

	for _, tt := range tests {
		got := TruncateMiddle(tt.s, tt.maxLen)
		if got != tt.want {
			t.Errorf("TruncateMiddle(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestCompareVariants_Nil(t *testing.T) {
	if d, same := CompareVariants(nil); d != 0 || same {
		t.Errorf("nil report: got %g %v", d, same)
	}
	if _, same := CompareVariants(&Report{}); same {
		t.Error("missing variants should not compare equal")
	}
}
