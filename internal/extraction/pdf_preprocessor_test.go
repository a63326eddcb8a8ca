package extraction

import (
	"strings"
	"testing"
)

func TestAnalyzePDF_InvalidData(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     {},
		"not a pdf": []byte("hello world"),
		"truncated": []byte("%PDF-1.4\n1 0 obj"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			result := AnalyzePDF(data)
			if result == nil {
				t.Fatal("AnalyzePDF returned nil")
			}
			if result.Error == nil {
				t.Error("expected error for invalid PDF")
			}
			if !result.IsScanned {
				t.Error("invalid PDF should be treated as scanned")
			}
			if result.PageCount != 1 {
				t.Errorf("PageCount = %d, want 1", result.PageCount)
			}
		})
	}
}

func TestIsLikelyScanned(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		pages int
		want  bool
	}{
		{"empty text", "", 1, true},
		{"whitespace only", "   \n\t  ", 2, true},
		{"sparse text over many pages", strings.Repeat("a", 60), 3, true},
		{"dense single page", strings.Repeat("a", 200), 1, false},
		{"zero pages treated as one", strings.Repeat("a", 80), 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isLikelyScanned(tc.text, tc.pages); got != tc.want {
				t.Errorf("isLikelyScanned() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	if !isPDF([]byte("%PDF-1.7\n...")) {
		t.Error("expected PDF magic to be detected")
	}
	if isPDF([]byte{0xFF, 0xD8, 0xFF}) {
		t.Error("JPEG detected as PDF")
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("  KEELLS  \n\n\tTOTAL 100.00\r\n  ")
	if len(got) != 2 {
		t.Fatalf("splitLines returned %d lines, want 2: %q", len(got), got)
	}
	if got[0] != "KEELLS" || got[1] != "TOTAL 100.00" {
		t.Errorf("splitLines = %q", got)
	}
}
