package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, message)
	return "projects/test/messages/1", nil
}

func TestStoreScheduler(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	sched := NewStoreScheduler(s)
	at := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, sched.Schedule(ctx, "u1", "item-1-2", "Installment due", "LKR 100.00", at))
	r, ok := s.Reminder("item-1-2")
	require.True(t, ok)
	assert.Equal(t, at, r.FireAt)
	assert.Nil(t, r.SentAt)

	later := at.Add(time.Hour)
	require.NoError(t, sched.Schedule(ctx, "u1", "item-1-2", "Installment due", "LKR 100.00", later))
	r, _ = s.Reminder("item-1-2")
	assert.Equal(t, later, r.FireAt)

	require.NoError(t, sched.Cancel(ctx, "item-1-2"))
	require.NoError(t, sched.Cancel(ctx, "item-1-2"))
	_, ok = s.Reminder("item-1-2")
	assert.False(t, ok)

	assert.Error(t, sched.Schedule(ctx, "u1", "", "t", "b", at))
}

func TestDispatcherDispatchDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*store.MemoryStore, *StoreScheduler) {
		t.Helper()
		s := store.NewMemoryStore()
		require.NoError(t, s.UpdateNotificationSettings(ctx, "u1", models.NotificationSettings{PushEnabled: true, FCMToken: "token-1"}))
		sched := NewStoreScheduler(s)
		require.NoError(t, sched.Schedule(ctx, "u1", "due-a", "Installment due", "pay", now.Add(-time.Minute)))
		require.NoError(t, sched.Schedule(ctx, "u2", "due-b", "Installment due", "pay", now.Add(-time.Minute)))
		require.NoError(t, sched.Schedule(ctx, "u1", "due-c", "Installment due", "pay", now.Add(time.Hour)))
		return s, sched
	}

	t.Run("sends due reminders once", func(t *testing.T) {
		s, _ := setup(t)
		sender := &fakeSender{}
		logger, _ := logtest.NewNullLogger()
		d := NewDispatcher(s, sender, logger, 10)
		d.SetClock(func() time.Time { return now })

		stats, err := d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, DispatchStats{Sent: 1, Skipped: 1}, stats)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "token-1", sender.sent[0].Token)
		assert.Equal(t, "Installment due", sender.sent[0].Notification.Title)

		stats, err = d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, DispatchStats{}, stats)
		assert.Len(t, sender.sent, 1)

		r, _ := s.Reminder("due-c")
		assert.Nil(t, r.SentAt)
	})

	t.Run("send failure is counted and not retried", func(t *testing.T) {
		s, _ := setup(t)
		sender := &fakeSender{err: errors.New("fcm unavailable")}
		logger, hook := logtest.NewNullLogger()
		d := NewDispatcher(s, sender, logger, 10)
		d.SetClock(func() time.Time { return now })

		stats, err := d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Failed)
		assert.NotEmpty(t, hook.AllEntries())

		r, _ := s.Reminder("due-a")
		require.NotNil(t, r.SentAt)
	})

	t.Run("nil sender logs reminders", func(t *testing.T) {
		s, _ := setup(t)
		logger, hook := logtest.NewNullLogger()
		d := NewDispatcher(s, nil, logger, 10)
		d.SetClock(func() time.Time { return now })

		stats, err := d.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Sent)
		assert.NotEmpty(t, hook.AllEntries())
	})
}

func TestDispatcherStartRejectsBadSpec(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	d := NewDispatcher(store.NewMemoryStore(), nil, logger, 0)
	assert.Error(t, d.Start("not a schedule"))
	d.Stop()
}
