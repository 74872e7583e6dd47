package util

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{5, "$5"},
		{999, "$999"},
		{1000, "$1,000"},
		{1500000, "$1,500,000"},
		{-4200, "-$4,200"},
	}

	for _, tc := range tests {
		if got := FormatMoney(tc.amount); got != tc.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestTruncateContent(t *testing.T) {
	if got := TruncateContent("short", 10); got != "short" {
		t.Errorf("TruncateContent(short, 10) = %q", got)
	}
	if got := TruncateContent("a very long title", 6); got != "a very..." {
		t.Errorf("TruncateContent = %q, want %q", got, "a very...")
	}
}

func TestGenerateRandomSlugUnique(t *testing.T) {
	a := GenerateRandomSlug("Vintage Camera")
	b := GenerateRandomSlug("Vintage Camera")
	if a == b {
		t.Errorf("two slugs for the same name collided: %q", a)
	}
	const prefix = "vintage-camera-"
	if len(a) <= len(prefix) || a[:len(prefix)] != prefix {
		t.Errorf("slug %q does not start with %q", a, prefix)
	}
}
