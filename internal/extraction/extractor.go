package extraction

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Receipt is an advisory purchase suggestion read from a receipt.
type Receipt struct {
	Merchant   string
	Amount     decimal.NullDecimal
	Date       *time.Time
	RawText    string
	Confidence float64
	// Source is "pdf" when the PDF text layer was used, otherwise "ocr".
	Source string
}

// Recognizer turns a document into text.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte, filename string) (*OCRResponse, error)
}

// ReceiptExtractor reads receipts using the PDF text layer when there is one
// and OCR otherwise.
type ReceiptExtractor struct {
	ocr Recognizer
	log logrus.FieldLogger
}

// NewReceiptExtractor creates an extractor. ocr may be nil, in which case
// only text PDFs can be read.
func NewReceiptExtractor(ocr Recognizer, log logrus.FieldLogger) *ReceiptExtractor {
	return &ReceiptExtractor{
		ocr: ocr,
		log: log.WithField("component", "extraction"),
	}
}

// Extract reads merchant, amount and date from a receipt document.
func (e *ReceiptExtractor) Extract(ctx context.Context, data []byte, filename, contentType string) (*Receipt, error) {
	if len(data) == 0 {
		return nil, &ExtractionError{Code: ErrInvalidDocument, Message: "empty document"}
	}

	if isPDF(data) || strings.EqualFold(contentType, "application/pdf") {
		analysis := AnalyzePDF(data)
		if analysis.Error != nil {
			e.log.WithError(analysis.Error).WithField("filename", filename).Debug("PDF text layer unreadable")
		}
		if !analysis.IsScanned {
			parsed := ParseReceiptText(analysis.TextLines)
			if parsed.Fields > 0 {
				return buildReceipt(parsed, analysis.ExtractedText, 0.9, "pdf"), nil
			}
		}
	}

	if e.ocr == nil {
		return nil, &ExtractionError{Code: ErrOCRNotConfigured, Message: "no OCR service configured for image receipts"}
	}

	resp, err := e.ocr.Recognize(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	parsed := ParseReceiptText(splitLines(resp.Text))
	if parsed.Fields == 0 {
		return nil, &ExtractionError{Code: ErrNothingFound, Message: "no merchant, amount or date found on receipt"}
	}

	e.log.WithFields(logrus.Fields{
		"filename":   filename,
		"fields":     parsed.Fields,
		"confidence": resp.Confidence,
	}).Info("Receipt extracted via OCR")

	return buildReceipt(parsed, resp.Text, resp.Confidence, "ocr"), nil
}

func buildReceipt(parsed ParsedText, raw string, confidence float64, source string) *Receipt {
	// Scale confidence by how much of the receipt was understood.
	confidence *= float64(parsed.Fields) / 3
	return &Receipt{
		Merchant:   parsed.Merchant,
		Amount:     parsed.Amount,
		Date:       parsed.Date,
		RawText:    raw,
		Confidence: confidence,
		Source:     source,
	}
}
