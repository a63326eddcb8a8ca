package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{
		client: client,
	}
}

func (s *FirestoreStore) userDoc(userID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID)
}

func (s *FirestoreStore) itemDoc(userID, categoryID, itemID string) *firestore.DocumentRef {
	return s.userDoc(userID).Collection("categories").Doc(categoryID).Collection("items").Doc(itemID)
}

func (s *FirestoreStore) dueDoc(userID, dueID string) *firestore.DocumentRef {
	return s.userDoc(userID).Collection("dues").Doc(dueID)
}

func (s *FirestoreStore) reminderDoc(reminderID string) *firestore.DocumentRef {
	return s.client.Collection("reminders").Doc(reminderID)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// applySnapshotPagination orders the query and resumes after the document
// whose full path is encoded in pageToken. It fetches pageSize+1 docs so the
// caller can detect whether a next page exists.
func (s *FirestoreStore) applySnapshotPagination(ctx context.Context, query firestore.Query, orderField string, dir firestore.Direction, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy(orderField, dir).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		path, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		cursor, err := s.client.Doc(path).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		query = query.StartAfter(cursor)
	}

	query = query.Limit(int(normalizePageSize(pageSize)) + 1)
	return query, nil
}

// nextPage trims the extra document and returns the token for the next page.
func nextPage(docs []*firestore.DocumentSnapshot, pageSize int32) ([]*firestore.DocumentSnapshot, string) {
	size := int(normalizePageSize(pageSize))
	if len(docs) <= size {
		return docs, ""
	}
	docs = docs[:size]
	return docs, EncodePageToken(relativePath(docs[size-1].Ref))
}

// relativePath strips the "projects/.../documents/" prefix from a ref path.
func relativePath(ref *firestore.DocumentRef) string {
	const marker = "/documents/"
	if i := strings.Index(ref.Path, marker); i >= 0 {
		return ref.Path[i+len(marker):]
	}
	return ref.Path
}

// GetAccount reads users/{uid}. A missing document yields an empty account.
func (s *FirestoreStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	doc, err := s.userDoc(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return models.NewAccount(userID), nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return accountFromData(userID, doc.Data()), nil
}

// SetAccountFields merges absolute values into users/{uid}.
func (s *FirestoreStore) SetAccountFields(ctx context.Context, userID string, values models.FieldValues) error {
	if len(values) == 0 {
		return nil
	}
	flat := make(map[string]interface{}, len(values))
	for path, v := range values {
		flat[path] = wireValue(path, v)
	}
	if _, err := s.userDoc(userID).Set(ctx, nest(flat), firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to set account fields: %w", err)
	}
	return nil
}

// IncrementAccountFields applies server-side atomic increments.
func (s *FirestoreStore) IncrementAccountFields(ctx context.Context, userID string, deltas models.FieldValues) error {
	update := incrementMap(deltas)
	if len(update) == 0 {
		return nil
	}
	if _, err := s.userDoc(userID).Set(ctx, nest(update), firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to increment account fields: %w", err)
	}
	return nil
}

func incrementMap(deltas models.FieldValues) map[string]interface{} {
	flat := make(map[string]interface{}, len(deltas))
	for path, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		flat[path] = firestore.Increment(wireValue(path, delta))
	}
	return flat
}

// UpdateAccount runs fn inside a transaction and merges the values it returns.
func (s *FirestoreStore) UpdateAccount(ctx context.Context, userID string, fn func(acct *models.Account) (models.FieldValues, error)) error {
	ref := s.userDoc(userID)
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		acct, err := s.readAccountTx(tx, userID)
		if err != nil {
			return err
		}
		values, err := fn(acct)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		flat := make(map[string]interface{}, len(values))
		for path, v := range values {
			flat[path] = wireValue(path, v)
		}
		return tx.Set(ref, nest(flat), firestore.MergeAll)
	})
}

func (s *FirestoreStore) readAccountTx(tx *firestore.Transaction, userID string) (*models.Account, error) {
	doc, err := tx.Get(s.userDoc(userID))
	if err != nil {
		if isNotFound(err) {
			return models.NewAccount(userID), nil
		}
		return nil, fmt.Errorf("failed to read account: %w", err)
	}
	return accountFromData(userID, doc.Data()), nil
}

// UpdateNotificationSettings stores the push token and flag.
func (s *FirestoreStore) UpdateNotificationSettings(ctx context.Context, userID string, settings models.NotificationSettings) error {
	_, err := s.userDoc(userID).Set(ctx, map[string]interface{}{
		"notifications": map[string]interface{}{
			"fcmToken":    settings.FCMToken,
			"pushEnabled": settings.PushEnabled,
		},
	}, firestore.MergeAll)
	return err
}

// CommitPurchase writes the item, the balance increments, the dues and the
// recomputed netAfterExpenses in one transaction.
func (s *FirestoreStore) CommitPurchase(ctx context.Context, userID string, decide func(acct *models.Account) (*models.PurchaseCommit, error)) (*models.PurchaseCommit, error) {
	var commit *models.PurchaseCommit
	userRef := s.userDoc(userID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		commit = nil
		acct, err := s.readAccountTx(tx, userID)
		if err != nil {
			return err
		}
		c, err := decide(acct)
		if err != nil {
			return err
		}
		if c == nil || c.Item == nil {
			return nil
		}

		if err := tx.Create(s.itemDoc(userID, c.Item.CategoryID, c.Item.ID), itemToDoc(c.Item)); err != nil {
			return fmt.Errorf("failed to write item: %w", err)
		}

		update := incrementMap(c.Increments)
		if c.RecomputeNet {
			for path, delta := range c.Increments {
				acct.Set(path, acct.Get(path).Add(delta))
			}
			update[models.FieldNetAfterExpenses] = wireValue(models.FieldNetAfterExpenses, acct.NetAfterExpenses())
		}
		if len(update) > 0 {
			if err := tx.Set(userRef, nest(update), firestore.MergeAll); err != nil {
				return fmt.Errorf("failed to apply balance changes: %w", err)
			}
		}

		for _, due := range c.Dues {
			if err := tx.Create(s.dueDoc(userID, due.ID), dueToDoc(due)); err != nil {
				return fmt.Errorf("failed to write due %s: %w", due.ID, err)
			}
		}

		commit = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commit, nil
}

// GetItem retrieves an item from Firestore
func (s *FirestoreStore) GetItem(ctx context.Context, userID, categoryID, itemID string) (*models.Item, error) {
	doc, err := s.itemDoc(userID, categoryID, itemID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	var data itemDoc
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("failed to parse item: %w", err)
	}
	return itemFromDoc(doc.Ref.ID, data)
}

// ListItems lists a user's items, newest first. An empty categoryID lists
// across every category with a collection group query.
func (s *FirestoreStore) ListItems(ctx context.Context, userID, categoryID string, pageSize int32, pageToken string) ([]*models.Item, string, error) {
	var query firestore.Query
	if categoryID != "" {
		query = s.userDoc(userID).Collection("categories").Doc(categoryID).Collection("items").Query
	} else {
		query = s.client.CollectionGroup("items").Where("userId", "==", userID)
	}

	query, err := s.applySnapshotPagination(ctx, query, "date", firestore.Desc, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list items: %w", err)
	}
	docs, nextPageToken := nextPage(docs, pageSize)

	items := make([]*models.Item, 0, len(docs))
	for _, doc := range docs {
		var data itemDoc
		if err := doc.DataTo(&data); err != nil {
			return nil, "", fmt.Errorf("failed to parse item: %w", err)
		}
		item, err := itemFromDoc(doc.Ref.ID, data)
		if err != nil {
			return nil, "", err
		}
		items = append(items, item)
	}
	return items, nextPageToken, nil
}

// CreateDues writes a batch of dues atomically.
func (s *FirestoreStore) CreateDues(ctx context.Context, userID string, dues []models.Due) error {
	if len(dues) == 0 {
		return nil
	}
	batch := s.client.Batch()
	for _, due := range dues {
		batch.Create(s.dueDoc(userID, due.ID), dueToDoc(due))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to create dues: %w", err)
	}
	return nil
}

// GetDue retrieves a due from Firestore
func (s *FirestoreStore) GetDue(ctx context.Context, userID, dueID string) (*models.Due, error) {
	doc, err := s.dueDoc(userID, dueID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("due %s: %w", dueID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get due: %w", err)
	}
	var data dueDoc
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("failed to parse due: %w", err)
	}
	return dueFromDoc(doc.Ref.ID, data), nil
}

// ListDues lists dues ordered by due date. An empty status lists all.
func (s *FirestoreStore) ListDues(ctx context.Context, userID string, st models.DueStatus, pageSize int32, pageToken string) ([]*models.Due, string, error) {
	query := s.userDoc(userID).Collection("dues").Query
	if st != "" {
		query = query.Where("status", "==", string(st))
	}

	query, err := s.applySnapshotPagination(ctx, query, "dueDate", firestore.Asc, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list dues: %w", err)
	}
	docs, nextPageToken := nextPage(docs, pageSize)

	dues := make([]*models.Due, 0, len(docs))
	for _, doc := range docs {
		var data dueDoc
		if err := doc.DataTo(&data); err != nil {
			return nil, "", fmt.Errorf("failed to parse due: %w", err)
		}
		dues = append(dues, dueFromDoc(doc.Ref.ID, data))
	}
	return dues, nextPageToken, nil
}

// MarkDuePaid flips a pending due to paid and releases its amount from
// credit.used.
func (s *FirestoreStore) MarkDuePaid(ctx context.Context, userID, dueID string, paidAt time.Time) (*models.Due, bool, error) {
	ref := s.dueDoc(userID, dueID)
	var due *models.Due
	var changed bool

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changed = false
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("due %s: %w", dueID, ErrNotFound)
			}
			return fmt.Errorf("failed to read due: %w", err)
		}
		var data dueDoc
		if err := doc.DataTo(&data); err != nil {
			return fmt.Errorf("failed to parse due: %w", err)
		}
		due = dueFromDoc(dueID, data)
		if due.Status == models.DuePaid {
			return nil
		}

		due.Status = models.DuePaid
		due.PaidAt = &paidAt
		changed = true
		if err := tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(models.DuePaid)},
			{Path: "paidAt", Value: paidAt},
		}); err != nil {
			return err
		}
		release := incrementMap(models.FieldValues{models.FieldCreditUsed: due.Amount.Neg()})
		if len(release) == 0 {
			return nil
		}
		return tx.Set(s.userDoc(userID), nest(release), firestore.MergeAll)
	})
	if err != nil {
		return nil, false, err
	}
	return due, changed, nil
}

// UpsertReminder creates or replaces a reminder.
func (s *FirestoreStore) UpsertReminder(ctx context.Context, reminder *models.Reminder) error {
	_, err := s.reminderDoc(reminder.ID).Set(ctx, reminderToDoc(reminder))
	return err
}

// DeleteReminder removes a reminder. Deleting a missing reminder succeeds.
func (s *FirestoreStore) DeleteReminder(ctx context.Context, reminderID string) error {
	_, err := s.reminderDoc(reminderID).Delete(ctx)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// ListPendingReminders returns unsent reminders whose fire time is not after before.
func (s *FirestoreStore) ListPendingReminders(ctx context.Context, before time.Time, limit int) ([]*models.Reminder, error) {
	if limit <= 0 {
		limit = 100
	}
	docs, err := s.client.Collection("reminders").
		Where("sentAt", "==", nil).
		Where("fireAt", "<=", before).
		OrderBy("fireAt", firestore.Asc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}

	reminders := make([]*models.Reminder, 0, len(docs))
	for _, doc := range docs {
		var data reminderDoc
		if err := doc.DataTo(&data); err != nil {
			return nil, fmt.Errorf("failed to parse reminder: %w", err)
		}
		reminders = append(reminders, reminderFromDoc(doc.Ref.ID, data))
	}
	return reminders, nil
}

// ClaimReminder marks a reminder sent. Only one caller can claim it.
func (s *FirestoreStore) ClaimReminder(ctx context.Context, reminderID string, sentAt time.Time) (bool, error) {
	ref := s.reminderDoc(reminderID)
	var claimed bool

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		claimed = false
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		var data reminderDoc
		if err := doc.DataTo(&data); err != nil {
			return fmt.Errorf("failed to parse reminder: %w", err)
		}
		if data.SentAt != nil {
			return nil
		}
		claimed = true
		return tx.Update(ref, []firestore.Update{{Path: "sentAt", Value: sentAt}})
	})
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	return claimed, nil
}
