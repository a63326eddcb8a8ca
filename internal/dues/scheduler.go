// Package dues expands financed purchases into monthly installment dues and
// keeps their reminders in step with their status.
package dues

import (
	"context"
	"fmt"
	"time"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
	"github.com/kusalyaa/SpendMart-sub000/internal/notify"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Request describes the installments still owed on one item.
type Request struct {
	ItemID           string
	CategoryID       string
	Title            string
	TotalMonths      int
	PerInstallment   decimal.Decimal
	PurchaseDate     time.Time
	FirstAlreadyPaid bool
	// FirstOnCredit is the financed part of an already paid first
	// installment. It is settled with the first remaining due.
	FirstOnCredit decimal.Decimal
	// Total is what the dues settle together, the amount charged to
	// credit.used. Zero means the rounded installments plus FirstOnCredit.
	Total decimal.Decimal
}

// Config controls when reminders fire.
type Config struct {
	ReminderHour int
	Location     *time.Location
}

// DefaultConfig fires reminders at 09:00 Sri Lanka time.
func DefaultConfig() Config {
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		loc = time.FixedZone("Asia/Colombo", 5*60*60+30*60)
	}
	return Config{ReminderHour: 9, Location: loc}
}

// Scheduler persists dues and requests their reminders.
type Scheduler struct {
	store     store.Store
	reminders notify.Scheduler
	log       logrus.FieldLogger
	cfg       Config
	now       func() time.Time
}

// NewScheduler creates a due scheduler.
func NewScheduler(s store.Store, reminders notify.Scheduler, log logrus.FieldLogger, cfg Config) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Scheduler{
		store:     s,
		reminders: reminders,
		log:       log.WithField("component", "dues"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetClock replaces the scheduler's time source.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// DueID is the identifier of the index-th installment of an item.
func DueID(itemID string, index int) string {
	return fmt.Sprintf("%s-%d", itemID, index)
}

// Plan expands a request into due records without persisting them. Due k
// falls k months after the purchase date; when the first installment was
// already paid, indices start at 2 and the stored total includes it.
//
// Every due carries the per-installment amount rounded to cents, except that
// the first due also carries FirstOnCredit and the last due absorbs the
// rounding remainder, so the dues add up to exactly req.Total.
func Plan(userID string, req Request, createdAt time.Time) []models.Due {
	carry := decimal.Zero
	if req.FirstAlreadyPaid {
		carry = money.Round(money.NonNegative(req.FirstOnCredit))
	}

	first, count := 1, req.TotalMonths
	if req.FirstAlreadyPaid {
		first, count = 2, req.TotalMonths+1
	}
	if req.TotalMonths <= 0 {
		if !carry.IsPositive() {
			return nil
		}
		// Single-month plan: only the financed part of the paid installment is left.
		first, count = 1, 1
	}

	total := req.Total
	if total.IsZero() {
		total = money.Round(req.PerInstallment.Mul(decimal.NewFromInt(int64(req.TotalMonths)))).Add(carry)
	}

	amount := money.Round(req.PerInstallment)
	dues := make([]models.Due, 0, count-first+1)
	allocated := decimal.Zero
	for index := first; index <= count; index++ {
		due := amount
		if index == first {
			due = due.Add(carry)
		}
		if index == count {
			due = total.Sub(allocated)
		}
		allocated = allocated.Add(due)

		dues = append(dues, models.Due{
			ID:               DueID(req.ItemID, index),
			UserID:           userID,
			ItemID:           req.ItemID,
			CategoryID:       req.CategoryID,
			Title:            req.Title,
			InstallmentIndex: index,
			Installments:     count,
			Amount:           due,
			DueDate:          req.PurchaseDate.AddDate(0, index-first+1, 0),
			Status:           models.DuePending,
			CreatedAt:        createdAt,
		})
	}
	return dues
}

// Schedule persists the dues for req and requests a reminder for each.
func (s *Scheduler) Schedule(ctx context.Context, userID string, req Request) ([]models.Due, error) {
	dues := Plan(userID, req, s.now())
	if len(dues) == 0 {
		return nil, nil
	}
	if err := s.store.CreateDues(ctx, userID, dues); err != nil {
		return nil, fmt.Errorf("create dues: %w", err)
	}
	s.Remind(ctx, userID, dues)
	return dues, nil
}

// ReminderTime is the moment a reminder for a due on dueDate should fire:
// the configured hour on that calendar day, or one minute from now when
// that moment has already passed.
func (s *Scheduler) ReminderTime(dueDate time.Time) time.Time {
	y, m, d := dueDate.In(s.cfg.Location).Date()
	at := time.Date(y, m, d, s.cfg.ReminderHour, 0, 0, 0, s.cfg.Location)
	now := s.now()
	if !at.After(now) {
		return now.Add(time.Minute)
	}
	return at
}

// Remind requests a reminder per due. Failures are logged and never fail the
// due, which is already stored.
func (s *Scheduler) Remind(ctx context.Context, userID string, dues []models.Due) {
	if s.reminders == nil {
		return
	}
	for _, due := range dues {
		title := fmt.Sprintf("Installment due: %s", due.Title)
		body := fmt.Sprintf("Installment %d of %d, %s due on %s",
			due.InstallmentIndex, due.Installments, money.Format(due.Amount), due.DueDate.In(s.cfg.Location).Format("2006-01-02"))

		if err := s.reminders.Schedule(ctx, userID, due.ID, title, body, s.ReminderTime(due.DueDate)); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"due_id":  due.ID,
			}).Warn("failed to schedule due reminder")
		}
	}
}

// MarkPaid settles a pending due. Marking a paid due again is a no-op. On
// the transition the due amount is released from credit.used and its
// reminder is cancelled.
func (s *Scheduler) MarkPaid(ctx context.Context, userID, dueID string) (*models.Due, bool, error) {
	due, changed, err := s.store.MarkDuePaid(ctx, userID, dueID, s.now())
	if err != nil {
		return nil, false, fmt.Errorf("mark due paid: %w", err)
	}
	if !changed {
		return due, false, nil
	}

	if s.reminders != nil {
		if err := s.reminders.Cancel(ctx, dueID); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"due_id":  dueID,
			}).Warn("failed to cancel due reminder")
		}
	}
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"due_id":  dueID,
		"amount":  due.Amount.String(),
	}).Info("due marked paid")
	return due, true, nil
}

// List returns a page of the user's dues ordered by due date.
func (s *Scheduler) List(ctx context.Context, userID string, status models.DueStatus, pageSize int32, pageToken string) ([]*models.Due, string, error) {
	return s.store.ListDues(ctx, userID, status, pageSize, pageToken)
}
