package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	accounts  map[string]*models.Account
	items     map[string]*models.Item // keyed by itemKey
	dues      map[string]*models.Due  // keyed by dueKey
	reminders map[string]*models.Reminder
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:  make(map[string]*models.Account),
		items:     make(map[string]*models.Item),
		dues:      make(map[string]*models.Due),
		reminders: make(map[string]*models.Reminder),
	}
}

func itemKey(userID, categoryID, itemID string) string {
	return userID + "/" + categoryID + "/" + itemID
}

func dueKey(userID, dueID string) string {
	return userID + "/" + dueID
}

// paginate applies cursor-based pagination to ids that are already in
// listing order. The cursor is the last ID of the previous page.
func paginate(ids []string, pageSize int32, pageToken string) ([]string, string) {
	size := int(normalizePageSize(pageSize))

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			startIdx = len(ids)
			for i, id := range ids {
				if id == cursorID {
					startIdx = i + 1
					break
				}
			}
		}
	}
	ids = ids[startIdx:]

	var nextToken string
	if len(ids) > size {
		ids = ids[:size]
		nextToken = EncodePageToken(ids[size-1])
	}
	return ids, nextToken
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	c.Present = make(models.FieldSet, len(a.Present))
	for k, v := range a.Present {
		c.Present[k] = v
	}
	return &c
}

func cloneItem(i *models.Item) *models.Item {
	c := *i
	return &c
}

func cloneDue(d *models.Due) *models.Due {
	c := *d
	if d.PaidAt != nil {
		t := *d.PaidAt
		c.PaidAt = &t
	}
	return &c
}

func cloneReminder(r *models.Reminder) *models.Reminder {
	c := *r
	if r.SentAt != nil {
		t := *r.SentAt
		c.SentAt = &t
	}
	return &c
}

// Account operations

func (m *MemoryStore) account(userID string) *models.Account {
	acct, ok := m.accounts[userID]
	if !ok {
		acct = models.NewAccount(userID)
		acct.Exists = true
		m.accounts[userID] = acct
	}
	return acct
}

func (m *MemoryStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.accounts[userID]
	if !ok {
		return models.NewAccount(userID), nil
	}
	return cloneAccount(acct), nil
}

func (m *MemoryStore) SetAccountFields(ctx context.Context, userID string, values models.FieldValues) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.setFields(userID, values)
}

func (m *MemoryStore) setFields(userID string, values models.FieldValues) error {
	for path := range values {
		if !models.IsNumericField(path) {
			return fmt.Errorf("unknown account field: %s", path)
		}
	}
	if len(values) == 0 {
		return nil
	}
	acct := m.account(userID)
	for path, v := range values {
		acct.Set(path, v)
	}
	return nil
}

func (m *MemoryStore) IncrementAccountFields(ctx context.Context, userID string, deltas models.FieldValues) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.incrementFields(userID, deltas)
}

func (m *MemoryStore) incrementFields(userID string, deltas models.FieldValues) error {
	for path := range deltas {
		if !models.IsNumericField(path) {
			return fmt.Errorf("unknown account field: %s", path)
		}
	}
	acct := m.account(userID)
	for path, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		acct.Set(path, acct.Get(path).Add(delta))
	}
	return nil
}

func (m *MemoryStore) UpdateAccount(ctx context.Context, userID string, fn func(acct *models.Account) (models.FieldValues, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := models.NewAccount(userID)
	if acct, ok := m.accounts[userID]; ok {
		snapshot = cloneAccount(acct)
	}
	values, err := fn(snapshot)
	if err != nil {
		return err
	}
	return m.setFields(userID, values)
}

func (m *MemoryStore) UpdateNotificationSettings(ctx context.Context, userID string, settings models.NotificationSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.account(userID).Notifications = settings
	return nil
}

// Purchase operations

func (m *MemoryStore) CommitPurchase(ctx context.Context, userID string, decide func(acct *models.Account) (*models.PurchaseCommit, error)) (*models.PurchaseCommit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := models.NewAccount(userID)
	if acct, ok := m.accounts[userID]; ok {
		snapshot = cloneAccount(acct)
	}
	commit, err := decide(snapshot)
	if err != nil {
		return nil, err
	}
	if commit == nil || commit.Item == nil {
		return nil, nil
	}

	key := itemKey(userID, commit.Item.CategoryID, commit.Item.ID)
	if _, exists := m.items[key]; exists {
		return nil, fmt.Errorf("item already exists: %s", commit.Item.ID)
	}
	for _, due := range commit.Dues {
		if _, exists := m.dues[dueKey(userID, due.ID)]; exists {
			return nil, fmt.Errorf("due already exists: %s", due.ID)
		}
	}
	for path := range commit.Increments {
		if !models.IsNumericField(path) {
			return nil, fmt.Errorf("unknown account field: %s", path)
		}
	}

	m.items[key] = cloneItem(commit.Item)
	if err := m.incrementFields(userID, commit.Increments); err != nil {
		return nil, err
	}
	if commit.RecomputeNet {
		acct := m.account(userID)
		acct.Set(models.FieldNetAfterExpenses, acct.NetAfterExpenses())
	}
	for i := range commit.Dues {
		m.dues[dueKey(userID, commit.Dues[i].ID)] = cloneDue(&commit.Dues[i])
	}
	return commit, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, userID, categoryID, itemID string) (*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemKey(userID, categoryID, itemID)]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	return cloneItem(item), nil
}

func (m *MemoryStore) ListItems(ctx context.Context, userID, categoryID string, pageSize int32, pageToken string) ([]*models.Item, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*models.Item
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		if categoryID != "" && item.CategoryID != categoryID {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID < matched[j].ID
	})

	byID := make(map[string]*models.Item, len(matched))
	ids := make([]string, 0, len(matched))
	for _, item := range matched {
		byID[item.ID] = item
		ids = append(ids, item.ID)
	}

	pageIDs, nextToken := paginate(ids, pageSize, pageToken)
	items := make([]*models.Item, 0, len(pageIDs))
	for _, id := range pageIDs {
		items = append(items, cloneItem(byID[id]))
	}
	return items, nextToken, nil
}

// Due operations

func (m *MemoryStore) CreateDues(ctx context.Context, userID string, dues []models.Due) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, due := range dues {
		if _, exists := m.dues[dueKey(userID, due.ID)]; exists {
			return fmt.Errorf("due already exists: %s", due.ID)
		}
	}
	for i := range dues {
		m.dues[dueKey(userID, dues[i].ID)] = cloneDue(&dues[i])
	}
	return nil
}

func (m *MemoryStore) GetDue(ctx context.Context, userID, dueID string) (*models.Due, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	due, ok := m.dues[dueKey(userID, dueID)]
	if !ok {
		return nil, fmt.Errorf("due %s: %w", dueID, ErrNotFound)
	}
	return cloneDue(due), nil
}

func (m *MemoryStore) ListDues(ctx context.Context, userID string, status models.DueStatus, pageSize int32, pageToken string) ([]*models.Due, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*models.Due
	for _, due := range m.dues {
		if due.UserID != userID {
			continue
		}
		if status != "" && due.Status != status {
			continue
		}
		matched = append(matched, due)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DueDate.Equal(matched[j].DueDate) {
			return matched[i].DueDate.Before(matched[j].DueDate)
		}
		return matched[i].ID < matched[j].ID
	})

	byID := make(map[string]*models.Due, len(matched))
	ids := make([]string, 0, len(matched))
	for _, due := range matched {
		byID[due.ID] = due
		ids = append(ids, due.ID)
	}

	pageIDs, nextToken := paginate(ids, pageSize, pageToken)
	dues := make([]*models.Due, 0, len(pageIDs))
	for _, id := range pageIDs {
		dues = append(dues, cloneDue(byID[id]))
	}
	return dues, nextToken, nil
}

func (m *MemoryStore) MarkDuePaid(ctx context.Context, userID, dueID string, paidAt time.Time) (*models.Due, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	due, ok := m.dues[dueKey(userID, dueID)]
	if !ok {
		return nil, false, fmt.Errorf("due %s: %w", dueID, ErrNotFound)
	}
	if due.Status == models.DuePaid {
		return cloneDue(due), false, nil
	}
	due.Status = models.DuePaid
	due.PaidAt = &paidAt
	if err := m.incrementFields(userID, models.FieldValues{models.FieldCreditUsed: due.Amount.Neg()}); err != nil {
		return nil, false, err
	}
	return cloneDue(due), true, nil
}

// Reminder operations

func (m *MemoryStore) UpsertReminder(ctx context.Context, reminder *models.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reminders[reminder.ID] = cloneReminder(reminder)
	return nil
}

func (m *MemoryStore) DeleteReminder(ctx context.Context, reminderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.reminders, reminderID)
	return nil
}

func (m *MemoryStore) ListPendingReminders(ctx context.Context, before time.Time, limit int) ([]*models.Reminder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	var pending []*models.Reminder
	for _, r := range m.reminders {
		if r.SentAt == nil && !r.FireAt.After(before) {
			pending = append(pending, cloneReminder(r))
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].FireAt.Equal(pending[j].FireAt) {
			return pending[i].FireAt.Before(pending[j].FireAt)
		}
		return pending[i].ID < pending[j].ID
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (m *MemoryStore) ClaimReminder(ctx context.Context, reminderID string, sentAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reminders[reminderID]
	if !ok || r.SentAt != nil {
		return false, nil
	}
	r.SentAt = &sentAt
	return true, nil
}

// Reminder returns a stored reminder, for inspection in tests and tooling.
func (m *MemoryStore) Reminder(reminderID string) (*models.Reminder, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reminders[reminderID]
	if !ok {
		return nil, false
	}
	return cloneReminder(r), true
}

var _ Store = (*MemoryStore)(nil)
