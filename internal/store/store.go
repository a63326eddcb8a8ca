package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the document operations the ledger needs. Account numeric
// fields are addressed by the dotted paths in models (e.g. "credit.used").
type Store interface {
	// Account operations. GetAccount returns an empty account (Exists=false)
	// for users that have no document yet.
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	SetAccountFields(ctx context.Context, userID string, values models.FieldValues) error
	IncrementAccountFields(ctx context.Context, userID string, deltas models.FieldValues) error
	UpdateAccount(ctx context.Context, userID string, fn func(acct *models.Account) (models.FieldValues, error)) error
	UpdateNotificationSettings(ctx context.Context, userID string, settings models.NotificationSettings) error

	// Purchase operations. CommitPurchase reads the account, calls decide and
	// writes the returned commit in a single transaction. An error from
	// decide aborts the transaction and is returned unchanged.
	CommitPurchase(ctx context.Context, userID string, decide func(acct *models.Account) (*models.PurchaseCommit, error)) (*models.PurchaseCommit, error)
	GetItem(ctx context.Context, userID, categoryID, itemID string) (*models.Item, error)
	ListItems(ctx context.Context, userID, categoryID string, pageSize int32, pageToken string) ([]*models.Item, string, error)

	// Due operations
	CreateDues(ctx context.Context, userID string, dues []models.Due) error
	GetDue(ctx context.Context, userID, dueID string) (*models.Due, error)
	ListDues(ctx context.Context, userID string, status models.DueStatus, pageSize int32, pageToken string) ([]*models.Due, string, error)
	// MarkDuePaid flips a pending due to paid and, in the same transaction,
	// releases its amount from credit.used. The bool is false when the due
	// was already paid, in which case nothing is written.
	MarkDuePaid(ctx context.Context, userID, dueID string, paidAt time.Time) (*models.Due, bool, error)

	// Reminder operations
	UpsertReminder(ctx context.Context, reminder *models.Reminder) error
	DeleteReminder(ctx context.Context, reminderID string) error
	ListPendingReminders(ctx context.Context, before time.Time, limit int) ([]*models.Reminder, error)
	ClaimReminder(ctx context.Context, reminderID string, sentAt time.Time) (bool, error)
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// normalizePageSize returns a valid page size (default 100, max 1000).
func normalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return 100
	}
	if pageSize > 1000 {
		return 1000
	}
	return pageSize
}
