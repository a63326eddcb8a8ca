package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

var fastRetry = RetryConfig{
	MaxRetries:    2,
	InitialDelay:  time.Millisecond,
	MaxDelay:      5 * time.Millisecond,
	BackoffFactor: 2.0,
}

func TestOCRClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(OCRHealthResponse{Status: "healthy", Version: "1.2.0"})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL)
	health, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Status = %q, want %q", health.Status, "healthy")
	}
}

func TestOCRClient_Recognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ocr" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if docType := r.FormValue("document_type"); docType != "receipt" {
			t.Errorf("document_type = %q, want %q", docType, "receipt")
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else if header.Filename != "receipt.jpg" {
			t.Errorf("filename = %q, want %q", header.Filename, "receipt.jpg")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(OCRResponse{Text: "KEELLS SUPER\nTOTAL 1,250.00", Confidence: 0.92})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL)
	resp, err := client.Recognize(context.Background(), []byte("fake image"), "receipt.jpg")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if resp.Confidence != 0.92 {
		t.Errorf("Confidence = %f, want 0.92", resp.Confidence)
	}
	if resp.Text == "" {
		t.Error("Text is empty")
	}
}

func TestOCRClient_RecognizeRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(OCRResponse{Text: "ok", Confidence: 0.5})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL)
	client.SetRetryConfig(fastRetry)

	resp, err := client.Recognize(context.Background(), []byte("x"), "a.png")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("Text = %q, want %q", resp.Text, "ok")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestOCRClient_RecognizeDoesNotRetryRejectedDocuments(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unsupported format", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewOCRClient(server.URL)
	client.SetRetryConfig(fastRetry)

	_, err := client.Recognize(context.Background(), []byte("x"), "a.gif")
	if err == nil {
		t.Fatal("expected error")
	}
	if code, ok := CodeOf(err); !ok || code != ErrInvalidDocument {
		t.Errorf("code = %q, want %q", code, ErrInvalidDocument)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}
