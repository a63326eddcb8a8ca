// Package ledger owns a user's financial snapshot. Every standalone balance
// change is an atomic increment; the read-decide-write paths (onboarding and
// purchase commits) run inside a single store transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/kusalyaa/SpendMart-sub000/internal/credit"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNegativeAmount is returned when a monetary input is below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrNonPositiveAmount is returned when an amount must be strictly positive.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientFreeCash is returned when a top-up exceeds free cash.
	ErrInsufficientFreeCash = errors.New("amount exceeds free cash")
)

// Ledger exposes the account mutation primitives on top of a store.
type Ledger struct {
	store store.Store
	log   logrus.FieldLogger
}

// New creates a ledger backed by s.
func New(s store.Store, log logrus.FieldLogger) *Ledger {
	return &Ledger{
		store: s,
		log:   log.WithField("component", "ledger"),
	}
}

func (l *Ledger) increment(ctx context.Context, userID, path string, delta decimal.Decimal) error {
	if err := l.store.IncrementAccountFields(ctx, userID, models.FieldValues{path: delta}); err != nil {
		return fmt.Errorf("increment %s: %w", path, err)
	}
	return nil
}

// IncrementWallet adds delta to the wallet balance.
func (l *Ledger) IncrementWallet(ctx context.Context, userID string, delta decimal.Decimal) error {
	return l.increment(ctx, userID, models.FieldCurrentBalance, delta)
}

// IncrementBudgetSpent adds delta to the month's budget spent.
func (l *Ledger) IncrementBudgetSpent(ctx context.Context, userID string, delta decimal.Decimal) error {
	return l.increment(ctx, userID, models.FieldBudgetSpent, delta)
}

// IncrementCreditUsed adds delta to the outstanding credit.
func (l *Ledger) IncrementCreditUsed(ctx context.Context, userID string, delta decimal.Decimal) error {
	return l.increment(ctx, userID, models.FieldCreditUsed, delta)
}

// IncrementEmergencyFund adds delta to the emergency fund balance.
func (l *Ledger) IncrementEmergencyFund(ctx context.Context, userID string, delta decimal.Decimal) error {
	return l.increment(ctx, userID, models.FieldEmergencyFundBalance, delta)
}

// ReadSnapshot returns the current account. The read is advisory. When the
// stored credit limit is missing while income is known, the limit is
// re-estimated and stored before returning.
func (l *Ledger) ReadSnapshot(ctx context.Context, userID string) (*models.Account, error) {
	acct, err := l.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read account: %w", err)
	}

	f := acct.Financials
	if acct.Credit.Limit.LessThanOrEqual(decimal.Zero) && f.MonthlyIncome.IsPositive() {
		limit := credit.EstimateLimit(f.MonthlyIncome, f.MonthlyExpenses, f.MonthlyBudget)
		err := l.store.SetAccountFields(ctx, userID, models.FieldValues{models.FieldCreditLimit: limit})
		if err != nil {
			l.log.WithError(err).WithField("user_id", userID).Warn("failed to repair credit limit")
			return acct, nil
		}
		l.log.WithFields(logrus.Fields{
			"user_id": userID,
			"limit":   limit.String(),
		}).Info("repaired missing credit limit")
		acct.Set(models.FieldCreditLimit, limit)
	}
	return acct, nil
}

// EnsureInitialBalances fills in the starting balances that are still unset.
// It runs in one transaction and is safe to call repeatedly.
func (l *Ledger) EnsureInitialBalances(ctx context.Context, userID string, income, expenses, budget decimal.Decimal) error {
	err := l.store.UpdateAccount(ctx, userID, func(acct *models.Account) (models.FieldValues, error) {
		return initialBalances(acct, income, expenses, budget), nil
	})
	if err != nil {
		return fmt.Errorf("ensure initial balances: %w", err)
	}
	return nil
}

func initialBalances(acct *models.Account, income, expenses, budget decimal.Decimal) models.FieldValues {
	values := models.FieldValues{}

	if !acct.Present.Has(models.FieldCurrentBalance) || acct.Balances.CurrentBalance.IsZero() {
		values[models.FieldCurrentBalance] = money.NonNegative(income.Sub(expenses))
	}
	if !acct.Present.Has(models.FieldEmergencyFundBalance) {
		values[models.FieldEmergencyFundBalance] = decimal.Zero
	}
	if !acct.Present.Has(models.FieldEmergencyFundGoal) {
		values[models.FieldEmergencyFundGoal] = decimal.Zero
	}
	if acct.Credit.Limit.LessThanOrEqual(decimal.Zero) {
		values[models.FieldCreditLimit] = credit.EstimateLimit(income, expenses, budget)
	}
	return values
}

// SetupIncome records the user's monthly figures, recomputes
// netAfterExpenses and initialises the starting balances.
func (l *Ledger) SetupIncome(ctx context.Context, userID string, income, expenses, budget decimal.Decimal) (*models.Account, error) {
	for name, v := range map[string]decimal.Decimal{"income": income, "expenses": expenses, "budget": budget} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%s: %w", name, ErrNegativeAmount)
		}
	}

	err := l.store.UpdateAccount(ctx, userID, func(acct *models.Account) (models.FieldValues, error) {
		acct.Set(models.FieldMonthlyIncome, income)
		acct.Set(models.FieldMonthlyExpenses, expenses)
		acct.Set(models.FieldMonthlyBudget, budget)
		return models.FieldValues{
			models.FieldMonthlyIncome:    income,
			models.FieldMonthlyExpenses:  expenses,
			models.FieldMonthlyBudget:    budget,
			models.FieldNetAfterExpenses: acct.NetAfterExpenses(),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("save income setup: %w", err)
	}

	if err := l.EnsureInitialBalances(ctx, userID, income, expenses, budget); err != nil {
		return nil, err
	}

	l.log.WithField("user_id", userID).Info("income setup saved")
	return l.ReadSnapshot(ctx, userID)
}

// RecomputeNetAfterExpenses stores (income − expenses) − budgetSpent.
func (l *Ledger) RecomputeNetAfterExpenses(ctx context.Context, userID string) (decimal.Decimal, error) {
	var net decimal.Decimal
	err := l.store.UpdateAccount(ctx, userID, func(acct *models.Account) (models.FieldValues, error) {
		net = acct.NetAfterExpenses()
		return models.FieldValues{models.FieldNetAfterExpenses: net}, nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("recompute net after expenses: %w", err)
	}
	return net, nil
}

// TopUpEmergencyFund moves amount of free cash into the emergency fund.
func (l *Ledger) TopUpEmergencyFund(ctx context.Context, userID string, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	acct, err := l.ReadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if free := acct.FreeCash(); amount.GreaterThan(free) {
		return nil, fmt.Errorf("%w: free cash is %s", ErrInsufficientFreeCash, money.Format(money.NonNegative(free)))
	}

	if err := l.IncrementEmergencyFund(ctx, userID, amount); err != nil {
		return nil, err
	}
	acct.Set(models.FieldEmergencyFundBalance, acct.Balances.EmergencyFundBalance.Add(amount))
	return acct, nil
}

// SetEmergencyFundGoal stores the target size of the emergency fund.
func (l *Ledger) SetEmergencyFundGoal(ctx context.Context, userID string, goal decimal.Decimal) error {
	if goal.IsNegative() {
		return ErrNegativeAmount
	}
	if err := l.store.SetAccountFields(ctx, userID, models.FieldValues{models.FieldEmergencyFundGoal: goal}); err != nil {
		return fmt.Errorf("set emergency fund goal: %w", err)
	}
	return nil
}

// ApplyPurchase commits a purchase atomically. decide sees the account as
// read inside the transaction; an error from decide aborts the commit and
// is returned unchanged.
func (l *Ledger) ApplyPurchase(ctx context.Context, userID string, decide func(acct *models.Account) (*models.PurchaseCommit, error)) (*models.PurchaseCommit, error) {
	return l.store.CommitPurchase(ctx, userID, decide)
}
