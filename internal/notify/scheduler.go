// Package notify schedules fire-once reminders and delivers them through
// Firebase Cloud Messaging when they come due.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
)

//go:generate mockgen -source=scheduler.go -destination=scheduler_mock.go -package=notify

// Scheduler registers and cancels fire-once reminders. Scheduling the same
// id again replaces the earlier reminder; cancelling an unknown id succeeds.
type Scheduler interface {
	Schedule(ctx context.Context, userID, id, title, body string, at time.Time) error
	Cancel(ctx context.Context, id string) error
}

// StoreScheduler persists reminders in the document store so that the
// Dispatcher can deliver them later.
type StoreScheduler struct {
	store store.Store
}

// NewStoreScheduler creates a scheduler backed by s.
func NewStoreScheduler(s store.Store) *StoreScheduler {
	return &StoreScheduler{store: s}
}

// Schedule stores a pending reminder.
func (s *StoreScheduler) Schedule(ctx context.Context, userID, id, title, body string, at time.Time) error {
	if id == "" {
		return fmt.Errorf("reminder id is required")
	}
	err := s.store.UpsertReminder(ctx, &models.Reminder{
		ID:     id,
		UserID: userID,
		Title:  title,
		Body:   body,
		FireAt: at,
	})
	if err != nil {
		return fmt.Errorf("schedule reminder %s: %w", id, err)
	}
	return nil
}

// Cancel removes a reminder.
func (s *StoreScheduler) Cancel(ctx context.Context, id string) error {
	if err := s.store.DeleteReminder(ctx, id); err != nil {
		return fmt.Errorf("cancel reminder %s: %w", id, err)
	}
	return nil
}

var _ Scheduler = (*StoreScheduler)(nil)
