// Package purchase records purchased items and decides how they are paid.
// The whole money movement of one purchase is committed in a single ledger
// transaction; a wallet that cannot cover a wallet purchase produces a
// Shortfall result asking the caller to pick a credit term.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kusalyaa/SpendMart-sub000/internal/credit"
	"github.com/kusalyaa/SpendMart-sub000/internal/dues"
	"github.com/kusalyaa/SpendMart-sub000/internal/ledger"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IdentityProvider supplies the signed-in user.
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// Indexer makes committed items searchable.
type Indexer interface {
	IndexItem(ctx context.Context, item *models.Item) error
}

// Config holds the credit policy applied to purchases.
type Config struct {
	MonthlyRate     decimal.Decimal
	ShortfallTerms  []int
	MaxInstallments int
}

// DefaultConfig is 1.5% per month with 3, 6 and 12 month shortfall terms.
func DefaultConfig() Config {
	return Config{
		MonthlyRate:     decimal.RequireFromString("0.015"),
		ShortfallTerms:  []int{3, 6, 12},
		MaxInstallments: 60,
	}
}

// Input is a purchase as entered by the user.
type Input struct {
	CategoryID string               `json:"categoryId"`
	Title      string               `json:"title"`
	Amount     string               `json:"amount"`
	Date       time.Time            `json:"date"`
	Method     models.PaymentMethod `json:"paymentMethod"`
	Status     models.ItemStatus    `json:"status"`
	// Installments is the credit term in months; for Wallet+Credit it is the
	// term chosen in the shortfall flow.
	Installments   int    `json:"installments"`
	JustSave       bool   `json:"justSave"`
	AllowOverdraft bool   `json:"allowOverdraft"`
	Note           string `json:"note"`
	ReceiptPath    string `json:"receiptPath"`
}

// ShortfallOption is one credit term offered to cover a shortfall.
type ShortfallOption struct {
	Months int         `json:"months"`
	Plan   credit.Plan `json:"plan"`
}

// Shortfall asks the caller to choose a term for financing the part of a
// wallet purchase the wallet cannot cover.
type Shortfall struct {
	Amount        decimal.Decimal   `json:"amount"`
	WalletBalance decimal.Decimal   `json:"walletBalance"`
	Shortfall     decimal.Decimal   `json:"shortfall"`
	MonthlyRate   decimal.Decimal   `json:"monthlyRate"`
	Options       []ShortfallOption `json:"options"`
}

// Terms lists the offered term lengths.
func (s *Shortfall) Terms() []int {
	terms := make([]int, 0, len(s.Options))
	for _, o := range s.Options {
		terms = append(terms, o.Months)
	}
	return terms
}

// Result is either a committed item or a shortfall signal.
type Result struct {
	ItemID    string       `json:"itemId,omitempty"`
	Item      *models.Item `json:"-"`
	Dues      []models.Due `json:"dues,omitempty"`
	Shortfall *Shortfall   `json:"shortfall,omitempty"`
}

// Orchestrator runs purchase submissions.
type Orchestrator struct {
	ledger   *ledger.Ledger
	dues     *dues.Scheduler
	identity IdentityProvider
	index    Indexer
	log      logrus.FieldLogger
	cfg      Config

	now   func() time.Time
	newID func() string
}

// NewOrchestrator creates an orchestrator. index may be nil.
func NewOrchestrator(l *ledger.Ledger, d *dues.Scheduler, identity IdentityProvider, index Indexer, log logrus.FieldLogger, cfg Config) *Orchestrator {
	if cfg.MonthlyRate.IsZero() && len(cfg.ShortfallTerms) == 0 {
		cfg = DefaultConfig()
	}
	if cfg.MaxInstallments <= 0 {
		cfg.MaxInstallments = 60
	}
	return &Orchestrator{
		ledger:   l,
		dues:     d,
		identity: identity,
		index:    index,
		log:      log.WithField("component", "purchase"),
		cfg:      cfg,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// SetClock replaces the orchestrator's time source.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// Config returns the credit policy in effect.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Quote plans principal over months at the configured rate.
func (o *Orchestrator) Quote(principal decimal.Decimal, months int) (credit.Plan, error) {
	if principal.IsNegative() {
		return credit.Plan{}, invalid("amount", "must not be negative")
	}
	if months < 1 || months > o.cfg.MaxInstallments {
		return credit.Plan{}, invalid("installments", "must be between 1 and %d", o.cfg.MaxInstallments)
	}
	return credit.PlanInstallments(principal, o.cfg.MonthlyRate, months), nil
}

// validated is an Input that passed validation.
type validated struct {
	Input
	amount decimal.Decimal
}

// Validate checks an input without touching the ledger.
func (o *Orchestrator) Validate(in Input) error {
	_, err := o.validate(in)
	return err
}

func (o *Orchestrator) validate(in Input) (*validated, error) {
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Title = strings.TrimSpace(in.Title)

	if in.CategoryID == "" {
		return nil, invalid("category", "please select a category")
	}
	if in.Title == "" {
		return nil, invalid("title", "title is required")
	}
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, invalid("amount", "%v", err)
	}
	if amount.IsNegative() {
		return nil, invalid("amount", "must not be negative")
	}

	if in.Method == "" {
		in.Method = models.PaymentWallet
	}
	if _, err := models.ParsePaymentMethod(string(in.Method)); err != nil {
		return nil, invalid("paymentMethod", "%v", err)
	}
	if in.Status != "" {
		if _, err := models.ParseItemStatus(string(in.Status)); err != nil {
			return nil, invalid("status", "%v", err)
		}
	}

	switch in.Method {
	case models.PaymentWallet:
		if in.Status == "" {
			in.Status = models.StatusPaid
		}
	case models.PaymentCredit:
		if in.Status == "" {
			in.Status = models.StatusToBePaid
		}
		if in.Status == models.StatusPaid {
			return nil, invalid("status", "credit purchases are either %q or %q", models.StatusPay, models.StatusToBePaid)
		}
		if in.Installments < 1 || in.Installments > o.cfg.MaxInstallments {
			return nil, invalid("installments", "must be between 1 and %d", o.cfg.MaxInstallments)
		}
	case models.PaymentWalletCredit:
		if !in.JustSave && !slices.Contains(o.cfg.ShortfallTerms, in.Installments) {
			return nil, invalid("installments", "term must be one of %v months", o.cfg.ShortfallTerms)
		}
		in.Status = models.StatusPay
	}

	if in.Date.IsZero() {
		in.Date = o.now()
	}
	return &validated{Input: in, amount: amount}, nil
}

// Submit validates and commits a purchase for the signed-in user.
func (o *Orchestrator) Submit(ctx context.Context, in Input) (*Result, error) {
	v, err := o.validate(in)
	if err != nil {
		return nil, err
	}

	userID, ok := o.currentUser(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	item := &models.Item{
		ID:          o.newID(),
		UserID:      userID,
		CategoryID:  v.CategoryID,
		Title:       v.Title,
		Amount:      v.amount,
		Date:        v.Date,
		Status:      v.Status,
		Note:        v.Note,
		ReceiptPath: v.ReceiptPath,
		NoEffects:   v.JustSave,
		CreatedAt:   o.now(),
	}
	entry := o.log.WithFields(logrus.Fields{
		"user_id": userID,
		"item_id": item.ID,
		"method":  string(v.Method),
	})

	commit, err := o.ledger.ApplyPurchase(ctx, userID, func(acct *models.Account) (*models.PurchaseCommit, error) {
		return o.decide(acct, v, item)
	})
	if err != nil {
		var short *shortfallError
		if errors.As(err, &short) {
			entry.WithField("shortfall", short.shortfall.Shortfall.String()).Info("wallet shortfall, asking for a credit term")
			return &Result{Shortfall: short.shortfall}, nil
		}
		entry.WithError(err).Error("purchase commit failed")
		return nil, &PersistenceError{Step: "commit purchase", Err: err}
	}

	o.dues.Remind(ctx, userID, commit.Dues)
	if o.index != nil {
		if err := o.index.IndexItem(ctx, commit.Item); err != nil {
			entry.WithError(err).Warn("failed to index item")
		}
	}

	entry.WithFields(logrus.Fields{
		"amount": money.Format(item.Amount),
		"dues":   len(commit.Dues),
	}).Info("purchase committed")

	return &Result{
		ItemID: commit.Item.ID,
		Item:   commit.Item,
		Dues:   commit.Dues,
	}, nil
}

func (o *Orchestrator) currentUser(ctx context.Context) (string, bool) {
	if o.identity == nil {
		return "", false
	}
	userID, ok := o.identity.CurrentUserID(ctx)
	return userID, ok && userID != ""
}

// decide runs inside the commit transaction against the account as read
// there. The item is filled in as a side effect.
func (o *Orchestrator) decide(acct *models.Account, v *validated, item *models.Item) (*models.PurchaseCommit, error) {
	commit := &models.PurchaseCommit{Item: item, Increments: models.FieldValues{}}
	wallet := acct.Balances.CurrentBalance
	amount := v.amount

	if v.JustSave {
		item.Payment = o.paymentForJustSave(v)
		return commit, nil
	}

	switch v.Method {
	case models.PaymentWallet:
		if amount.GreaterThan(money.NonNegative(wallet)) && !v.AllowOverdraft {
			return nil, &shortfallError{shortfall: o.shortfall(amount, wallet)}
		}
		o.payFromWallet(commit, amount, v.Status.PaidNow())
		item.Payment = models.WalletPayment{}

	case models.PaymentWalletCredit:
		walletPaid := decimal.Min(amount, money.NonNegative(wallet))
		principal := amount.Sub(walletPaid)
		if !principal.IsPositive() {
			o.payFromWallet(commit, amount, true)
			item.Payment = models.WalletPayment{}
			break
		}

		plan := credit.PlanInstallments(principal, o.cfg.MonthlyRate, v.Installments)
		o.payFromWallet(commit, walletPaid, true)
		charged := money.Round(plan.Total)
		commit.Increments[models.FieldCreditUsed] = charged
		item.Payment = models.SplitPayment{
			WalletPaid:      walletPaid,
			CreditPrincipal: principal,
			Credit:          installments(plan),
		}
		commit.Dues = dues.Plan(item.UserID, o.dueRequest(item, plan, plan.Months, charged), item.CreatedAt)

	case models.PaymentCredit:
		plan := credit.PlanInstallments(amount, o.cfg.MonthlyRate, v.Installments)
		payment := models.CreditPayment{Plan: installments(plan)}

		if v.Status == models.StatusPay {
			walletPart := decimal.Min(money.NonNegative(wallet), plan.PerInstallment)
			o.payFromWallet(commit, walletPart, true)
			charged := money.Round(plan.Total.Sub(walletPart))
			commit.Increments[models.FieldCreditUsed] = charged
			payment.FirstPaid = true
			payment.FirstFromWallet = walletPart
			payment.FirstOnCredit = plan.PerInstallment.Sub(walletPart)

			// The financed part of the first installment is owed with due 2.
			req := o.dueRequest(item, plan, plan.Months-1, charged)
			req.FirstAlreadyPaid = true
			req.FirstOnCredit = payment.FirstOnCredit
			commit.Dues = dues.Plan(item.UserID, req, item.CreatedAt)
		} else {
			charged := money.Round(plan.Total)
			commit.Increments[models.FieldCreditUsed] = charged
			commit.Dues = dues.Plan(item.UserID, o.dueRequest(item, plan, plan.Months, charged), item.CreatedAt)
		}
		item.Payment = payment
	}

	commit.RecomputeNet = true
	return commit, nil
}

// paymentForJustSave records the chosen method without moving money.
func (o *Orchestrator) paymentForJustSave(v *validated) models.Payment {
	switch v.Method {
	case models.PaymentCredit:
		plan := credit.PlanInstallments(v.amount, o.cfg.MonthlyRate, v.Installments)
		return models.CreditPayment{Plan: installments(plan)}
	case models.PaymentWalletCredit:
		return models.SplitPayment{}
	}
	return models.WalletPayment{}
}

// payFromWallet debits the wallet and, when the money leaves now, counts it
// against the budget.
func (o *Orchestrator) payFromWallet(commit *models.PurchaseCommit, amount decimal.Decimal, paidNow bool) {
	if amount.IsZero() {
		return
	}
	commit.Increments[models.FieldCurrentBalance] = commit.Increments[models.FieldCurrentBalance].Sub(amount)
	if paidNow {
		commit.Increments[models.FieldBudgetSpent] = commit.Increments[models.FieldBudgetSpent].Add(amount)
	}
}

func (o *Orchestrator) shortfall(amount, wallet decimal.Decimal) *Shortfall {
	gap := amount.Sub(money.NonNegative(wallet))
	s := &Shortfall{
		Amount:        amount,
		WalletBalance: wallet,
		Shortfall:     gap,
		MonthlyRate:   o.cfg.MonthlyRate,
	}
	for _, months := range o.cfg.ShortfallTerms {
		s.Options = append(s.Options, ShortfallOption{
			Months: months,
			Plan:   credit.PlanInstallments(gap, o.cfg.MonthlyRate, months),
		})
	}
	return s
}

// dueRequest describes the dues that together settle charged, the amount
// added to credit.used.
func (o *Orchestrator) dueRequest(item *models.Item, plan credit.Plan, months int, charged decimal.Decimal) dues.Request {
	return dues.Request{
		ItemID:         item.ID,
		CategoryID:     item.CategoryID,
		Title:          item.Title,
		TotalMonths:    months,
		PerInstallment: plan.PerInstallment,
		PurchaseDate:   item.Date,
		Total:          charged,
	}
}

func installments(plan credit.Plan) models.Installments {
	return models.Installments{
		Count:          plan.Months,
		MonthlyRate:    plan.MonthlyRate,
		InterestTotal:  plan.Interest,
		TotalPayable:   plan.Total,
		PerInstallment: plan.PerInstallment,
	}
}

// String renders a result for logs and the CLI.
func (r *Result) String() string {
	if r.Shortfall != nil {
		return fmt.Sprintf("shortfall of %s (terms %v)", money.Format(r.Shortfall.Shortfall), r.Shortfall.Terms())
	}
	return fmt.Sprintf("item %s with %d dues", r.ItemID, len(r.Dues))
}
