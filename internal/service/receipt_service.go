package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	gcsstorage "cloud.google.com/go/storage"
	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
)

// maxReceiptBytes caps uploaded receipt documents.
const maxReceiptBytes = 10 << 20

// ReceiptArchive stores original receipt documents.
type ReceiptArchive interface {
	Put(ctx context.Context, objectPath, contentType string, data []byte) error
}

// GCSArchive stores receipts in a Cloud Storage bucket.
type GCSArchive struct {
	bucket *gcsstorage.BucketHandle
}

// NewGCSArchive wraps a bucket handle.
func NewGCSArchive(bucket *gcsstorage.BucketHandle) *GCSArchive {
	return &GCSArchive{bucket: bucket}
}

// Put writes one object.
func (a *GCSArchive) Put(ctx context.Context, objectPath, contentType string, data []byte) error {
	w := a.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", objectPath, err)
	}
	return nil
}

// ExtractReceipt reads a receipt and merges the suggestion into the caller's
// draft. Nothing is recorded: the draft still goes through SubmitPurchase.
func (s *FinanceService) ExtractReceipt(ctx context.Context, req *connect.Request[ExtractReceiptRequest]) (*connect.Response[ExtractReceiptResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if len(msg.DocumentData) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("documentData is required"))
	}
	if len(msg.DocumentData) > maxReceiptBytes {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("document is %d bytes, limit is %d", len(msg.DocumentData), maxReceiptBytes))
	}
	if s.extractor == nil {
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("receipt extraction is not configured"))
	}

	receipt, err := s.extractor.Extract(ctx, msg.DocumentData, msg.Filename, msg.ContentType)
	if err != nil {
		return nil, toConnectError("extract receipt", err)
	}

	var draft purchase.Input
	if msg.Draft != nil {
		draft = *msg.Draft
	}
	draft = purchase.MergeReceipt(draft, receipt)
	resp := receiptResponse(receipt, draft)

	if msg.Archive {
		if s.archive == nil {
			return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("storage service is not configured"))
		}
		objectPath := receiptObjectPath(claims.UID, msg.Filename, time.Now())
		contentType := msg.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := s.archive.Put(ctx, objectPath, contentType, msg.DocumentData); err != nil {
			// The suggestion is still useful without the archived copy.
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id": claims.UID,
				"path":    objectPath,
			}).Warn("Failed to archive receipt")
		} else {
			resp.ReceiptPath = objectPath
			resp.Draft.ReceiptPath = objectPath
		}
	}

	return connect.NewResponse(resp), nil
}

// receiptObjectPath is receipts/{uid}/{yyyy-mm}/{uuid}{ext}.
func receiptObjectPath(userID, filename string, now time.Time) string {
	return fmt.Sprintf("receipts/%s/%s/%s%s", userID, now.Format("2006-01"), uuid.New().String(), extensionFromPath(filename))
}

// extensionFromPath extracts a lower-case file extension, defaulting to ".bin".
func extensionFromPath(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" || len(ext) > 5 {
		return ".bin"
	}
	return ext
}
