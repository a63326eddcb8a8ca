// Package extraction turns receipt images and PDFs into advisory purchase
// suggestions. Nothing it returns is trusted: the caller shows it to the
// user for confirmation before a purchase is submitted.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRClient is an HTTP client for the OCR text recognition service.
type OCRClient struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// NewOCRClient creates a new OCR service client.
func NewOCRClient(baseURL string) *OCRClient {
	return &OCRClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retry: DefaultOCRRetryConfig,
	}
}

// SetRetryConfig overrides the retry policy.
func (c *OCRClient) SetRetryConfig(cfg RetryConfig) {
	c.retry = cfg
}

// OCRResponse is the recognised text of one document.
type OCRResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}

// OCRHealthResponse represents the health check response.
type OCRHealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HealthCheck checks if the OCR service is healthy.
func (c *OCRClient) HealthCheck(ctx context.Context) (*OCRHealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("health check failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var health OCRHealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &health, nil
}

// Recognize sends a document to the OCR service, retrying transient failures.
func (c *OCRClient) Recognize(ctx context.Context, data []byte, filename string) (*OCRResponse, error) {
	return WithRetry(ctx, c.retry, func(ctx context.Context) (*OCRResponse, error) {
		return c.recognizeOnce(ctx, data, filename)
	})
}

func (c *OCRClient) recognizeOnce(ctx context.Context, data []byte, filename string) (*OCRResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write file data: %w", err)
	}
	if err := writer.WriteField("document_type", "receipt"); err != nil {
		return nil, fmt.Errorf("write document_type: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ExtractionError{Code: ErrOCRTimeout, Message: "OCR request timed out", Retryable: true, Cause: err}
		}
		return nil, &ExtractionError{Code: ErrOCRUnavailable, Message: "OCR request failed", Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ExtractionError{
			Code:      ErrOCRUnavailable,
			Message:   fmt.Sprintf("OCR service returned status %d", resp.StatusCode),
			Retryable: true,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &ExtractionError{
			Code:    ErrInvalidDocument,
			Message: fmt.Sprintf("OCR rejected document: status %d, body: %s", resp.StatusCode, string(body)),
		}
	}

	var result OCRResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
