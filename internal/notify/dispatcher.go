package notify

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sender delivers one push message. *messaging.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DispatchStats summarises one dispatch batch.
type DispatchStats struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Dispatcher delivers reminders whose fire time has passed. A reminder is
// claimed before it is sent, so it is delivered at most once even when
// several instances dispatch concurrently.
type Dispatcher struct {
	store     store.Store
	sender    Sender
	log       logrus.FieldLogger
	batchSize int
	now       func() time.Time

	cron *cron.Cron
}

// NewDispatcher creates a dispatcher. A nil sender logs reminders instead of
// pushing them.
func NewDispatcher(s store.Store, sender Sender, log logrus.FieldLogger, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Dispatcher{
		store:     s,
		sender:    sender,
		log:       log.WithField("component", "reminders"),
		batchSize: batchSize,
		now:       time.Now,
	}
}

// SetClock replaces the dispatcher's time source.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// DispatchDue sends every pending reminder whose fire time is not in the future.
func (d *Dispatcher) DispatchDue(ctx context.Context) (DispatchStats, error) {
	var stats DispatchStats
	now := d.now()

	reminders, err := d.store.ListPendingReminders(ctx, now, d.batchSize)
	if err != nil {
		return stats, fmt.Errorf("list pending reminders: %w", err)
	}

	for _, r := range reminders {
		entry := d.log.WithFields(logrus.Fields{"reminder_id": r.ID, "user_id": r.UserID})

		claimed, err := d.store.ClaimReminder(ctx, r.ID, now)
		if err != nil {
			entry.WithError(err).Warn("failed to claim reminder")
			stats.Failed++
			continue
		}
		if !claimed {
			stats.Skipped++
			continue
		}

		sent, err := d.deliver(ctx, r.UserID, r.Title, r.Body)
		switch {
		case err != nil:
			entry.WithError(err).Warn("failed to send reminder")
			stats.Failed++
		case !sent:
			stats.Skipped++
		default:
			stats.Sent++
		}
	}

	if len(reminders) > 0 {
		d.log.WithFields(logrus.Fields{
			"sent":    stats.Sent,
			"skipped": stats.Skipped,
			"failed":  stats.Failed,
		}).Info("reminder batch dispatched")
	}
	return stats, nil
}

func (d *Dispatcher) deliver(ctx context.Context, userID, title, body string) (bool, error) {
	if d.sender == nil {
		d.log.WithField("user_id", userID).Infof("reminder: %s - %s", title, body)
		return true, nil
	}

	acct, err := d.store.GetAccount(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load push settings: %w", err)
	}
	if !acct.Notifications.PushEnabled || acct.Notifications.FCMToken == "" {
		return false, nil
	}

	message := &messaging.Message{
		Token: acct.Notifications.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{"type": "due_reminder"},
	}
	if _, err := d.sender.Send(ctx, message); err != nil {
		return false, err
	}
	return true, nil
}

// Start runs DispatchDue on the given cron spec (for example "@every 1m").
func (d *Dispatcher) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		if _, err := d.DispatchDue(ctx); err != nil {
			d.log.WithError(err).Error("reminder dispatch failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	d.cron = c
	c.Start()
	d.log.WithField("schedule", spec).Info("reminder dispatcher started")
	return nil
}

// Stop halts the cron loop and waits for a running batch to finish.
func (d *Dispatcher) Stop() {
	if d.cron == nil {
		return
	}
	<-d.cron.Stop().Done()
}
