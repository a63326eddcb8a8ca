package extraction

import (
	"errors"
	"fmt"
)

// ExtractionErrorCode represents specific extraction error types.
type ExtractionErrorCode string

const (
	ErrOCRUnavailable   ExtractionErrorCode = "OCR_UNAVAILABLE"
	ErrOCRTimeout       ExtractionErrorCode = "OCR_TIMEOUT"
	ErrOCRNotConfigured ExtractionErrorCode = "OCR_NOT_CONFIGURED"
	ErrInvalidDocument  ExtractionErrorCode = "INVALID_DOCUMENT"
	ErrNothingFound     ExtractionErrorCode = "NOTHING_FOUND"
)

// ExtractionError is a structured error for extraction failures.
type ExtractionError struct {
	Code      ExtractionErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *ExtractionError) IsRetryable() bool {
	return e.Retryable
}

// CodeOf returns the extraction error code carried by err, if any.
func CodeOf(err error) (ExtractionErrorCode, bool) {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Code, true
	}
	return "", false
}
