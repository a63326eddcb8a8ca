package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"45.67", "45.67", true},
		{"1,234.56", "1234.56", true},
		{"Rs. 450.00", "450", true},
		{"LKR 12,000", "12000", true},
		{"$9.99", "9.99", true},
		{"notanumber", "0", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := parseAmount(tc.input)
			if ok != tc.ok {
				t.Fatalf("parseAmount(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if got.String() != tc.want {
				t.Fatalf("parseAmount(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string // YYYY-MM-DD or empty
	}{
		{"15/01/2024", "2024-01-15"},
		{"01/15/2024", ""}, // month 15 does not exist
		{"2024-01-15", "2024-01-15"},
		{"15.01.2024", "2024-01-15"},
		{"Jan 15 2025", "2025-01-15"},
		{"15 Jan 2025", "2025-01-15"},
		{"15/01/25", "2025-01-15"},
		{"", ""},
		{"not a date", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := parseFlexibleDate(tc.input)
			formatted := ""
			if !got.IsZero() {
				formatted = got.Format("2006-01-02")
			}
			if formatted != tc.expected {
				t.Fatalf("parseFlexibleDate(%q) = %q, want %q", tc.input, formatted, tc.expected)
			}
		})
	}
}

func TestParseReceiptText(t *testing.T) {
	lines := []string{
		"KEELLS SUPER",
		"No. 12, High Level Road, Nugegoda",
		"Tel: 0112345678",
		"Date: 03/02/2025 Time: 18:42",
		"Bread 1 x 180.00 180.00",
		"Milk Powder 400g 1,150.00",
		"SUB TOTAL 1,330.00",
		"NET TOTAL Rs. 1,330.00",
		"CASH 2,000.00",
		"CHANGE 670.00",
	}

	parsed := ParseReceiptText(lines)

	if parsed.Merchant != "Keells" {
		t.Errorf("Merchant = %q, want %q", parsed.Merchant, "Keells")
	}
	if !parsed.Amount.Valid || parsed.Amount.Decimal.StringFixed(2) != "1330.00" {
		t.Errorf("Amount = %v, want 1330.00", parsed.Amount)
	}
	if parsed.Date == nil || parsed.Date.Format("2006-01-02") != "2025-02-03" {
		t.Errorf("Date = %v, want 2025-02-03", parsed.Date)
	}
	if parsed.Fields != 3 {
		t.Errorf("Fields = %d, want 3", parsed.Fields)
	}
}

func TestParseReceiptText_FallsBackToLargestAmount(t *testing.T) {
	parsed := ParseReceiptText([]string{
		"Corner Shop",
		"Tea 2 120.00",
		"Biscuits 350.50",
	})

	if !parsed.Amount.Valid || parsed.Amount.Decimal.StringFixed(2) != "350.50" {
		t.Errorf("Amount = %v, want 350.50", parsed.Amount)
	}
	if parsed.Date != nil {
		t.Errorf("Date = %v, want nil", parsed.Date)
	}
	if parsed.Fields != 2 {
		t.Errorf("Fields = %d, want 2", parsed.Fields)
	}
}

type fakeRecognizer struct {
	resp  *OCRResponse
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, data []byte, filename string) (*OCRResponse, error) {
	f.calls++
	return f.resp, f.err
}

func TestReceiptExtractor_Extract(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("image via OCR", func(t *testing.T) {
		ocr := &fakeRecognizer{resp: &OCRResponse{
			Text:       "ARPICO SUPERCENTRE\n2025-03-01\nTOTAL 2,450.00",
			Confidence: 0.9,
		}}
		extractor := NewReceiptExtractor(ocr, logger)

		receipt, err := extractor.Extract(context.Background(), []byte{0xFF, 0xD8}, "r.jpg", "image/jpeg")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if receipt.Merchant != "Arpico Supercentre" {
			t.Errorf("Merchant = %q", receipt.Merchant)
		}
		if receipt.Amount.Decimal.StringFixed(2) != "2450.00" {
			t.Errorf("Amount = %v", receipt.Amount)
		}
		if receipt.Source != "ocr" {
			t.Errorf("Source = %q, want ocr", receipt.Source)
		}
		if receipt.Confidence < 0.89 || receipt.Confidence > 0.91 {
			t.Errorf("Confidence = %f, want 0.9", receipt.Confidence)
		}
	})

	t.Run("no OCR configured", func(t *testing.T) {
		extractor := NewReceiptExtractor(nil, logger)
		_, err := extractor.Extract(context.Background(), []byte{0xFF, 0xD8}, "r.jpg", "image/jpeg")
		if code, _ := CodeOf(err); code != ErrOCRNotConfigured {
			t.Fatalf("code = %q, want %q", code, ErrOCRNotConfigured)
		}
	})

	t.Run("scanned PDF falls back to OCR", func(t *testing.T) {
		ocr := &fakeRecognizer{resp: &OCRResponse{Text: "TOTAL 99.00", Confidence: 0.6}}
		extractor := NewReceiptExtractor(ocr, logger)

		receipt, err := extractor.Extract(context.Background(), []byte("%PDF-1.4 garbage"), "r.pdf", "application/pdf")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if ocr.calls != 1 {
			t.Errorf("OCR calls = %d, want 1", ocr.calls)
		}
		if receipt.Amount.Decimal.StringFixed(2) != "99.00" {
			t.Errorf("Amount = %v", receipt.Amount)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		ocr := &fakeRecognizer{resp: &OCRResponse{Text: "~~ ~~", Confidence: 0.2}}
		extractor := NewReceiptExtractor(ocr, logger)
		_, err := extractor.Extract(context.Background(), []byte{1}, "r.png", "image/png")
		if code, _ := CodeOf(err); code != ErrNothingFound {
			t.Fatalf("code = %q, want %q", code, ErrNothingFound)
		}
	})

	t.Run("OCR failure is returned", func(t *testing.T) {
		boom := &ExtractionError{Code: ErrOCRUnavailable, Message: "down", Retryable: true}
		extractor := NewReceiptExtractor(&fakeRecognizer{err: boom}, logrus.New())
		_, err := extractor.Extract(context.Background(), []byte{1}, "r.png", "image/png")
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want %v", err, boom)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		extractor := NewReceiptExtractor(nil, logger)
		_, err := extractor.Extract(context.Background(), nil, "r.png", "image/png")
		if code, _ := CodeOf(err); code != ErrInvalidDocument {
			t.Fatalf("code = %q, want %q", code, ErrInvalidDocument)
		}
	})
}
