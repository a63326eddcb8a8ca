// Package models defines the ledger's domain records: the per-user account
// snapshot, purchase items with their payment variants, dues and reminders.
package models

import (
	"github.com/shopspring/decimal"
)

// Field paths inside users/{uid}. These names are the persisted wire contract.
const (
	FieldMonthlyIncome    = "financials.monthlyIncome"
	FieldMonthlyExpenses  = "financials.monthlyExpenses"
	FieldMonthlyBudget    = "financials.monthlyBudget"
	FieldBudgetSpent      = "financials.budgetSpent"
	FieldNetAfterExpenses = "financials.netAfterExpenses"

	FieldCurrentBalance       = "balances.currentBalance"
	FieldEmergencyFundBalance = "balances.emergencyFundBalance"
	FieldEmergencyFundGoal    = "balances.emergencyFundGoal"

	FieldCreditLimit = "credit.limit"
	FieldCreditUsed  = "credit.used"
	FieldCreditAPR   = "credit.apr"
	FieldCreditScore = "credit.score"
)

// NumericFields lists every numeric account field path.
var NumericFields = []string{
	FieldMonthlyIncome,
	FieldMonthlyExpenses,
	FieldMonthlyBudget,
	FieldBudgetSpent,
	FieldNetAfterExpenses,
	FieldCurrentBalance,
	FieldEmergencyFundBalance,
	FieldEmergencyFundGoal,
	FieldCreditLimit,
	FieldCreditUsed,
	FieldCreditAPR,
	FieldCreditScore,
}

// FieldValues maps account field paths to values (absolute or deltas,
// depending on the store operation receiving them).
type FieldValues map[string]decimal.Decimal

// FieldSet records which account fields exist in storage.
type FieldSet map[string]bool

// Has reports whether path is stored.
func (s FieldSet) Has(path string) bool {
	return s != nil && s[path]
}

// Financials is the monthly budgeting picture of a user.
type Financials struct {
	MonthlyIncome    decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses  decimal.Decimal `json:"monthlyExpenses"`
	MonthlyBudget    decimal.Decimal `json:"monthlyBudget"`
	BudgetSpent      decimal.Decimal `json:"budgetSpent"`
	NetAfterExpenses decimal.Decimal `json:"netAfterExpenses"`
}

// Balances holds where a user's money currently is.
type Balances struct {
	CurrentBalance       decimal.Decimal `json:"currentBalance"`
	EmergencyFundBalance decimal.Decimal `json:"emergencyFundBalance"`
	EmergencyFundGoal    decimal.Decimal `json:"emergencyFundGoal"`
}

// CreditLine is the revolving credit facility. APR and Score are advisory.
type CreditLine struct {
	Limit decimal.Decimal `json:"limit"`
	Used  decimal.Decimal `json:"used"`
	APR   decimal.Decimal `json:"apr"`
	Score decimal.Decimal `json:"score"`
}

// Available is the unused part of the limit, never negative.
func (c CreditLine) Available() decimal.Decimal {
	return decimal.Max(c.Limit.Sub(c.Used), decimal.Zero)
}

// NotificationSettings holds push delivery preferences.
type NotificationSettings struct {
	PushEnabled bool   `json:"pushEnabled"`
	FCMToken    string `json:"-"`
}

// Account is the snapshot of users/{uid}.
type Account struct {
	UserID        string               `json:"userId"`
	Exists        bool                 `json:"-"`
	Financials    Financials           `json:"financials"`
	Balances      Balances             `json:"balances"`
	Credit        CreditLine           `json:"credit"`
	Notifications NotificationSettings `json:"notifications"`
	Present       FieldSet             `json:"-"`
}

// NewAccount returns an empty, not-yet-stored account.
func NewAccount(userID string) *Account {
	return &Account{UserID: userID, Present: FieldSet{}}
}

// Get reads a numeric field by path. Unknown paths read as zero.
func (a *Account) Get(path string) decimal.Decimal {
	if p := a.field(path); p != nil {
		return *p
	}
	return decimal.Zero
}

// Set writes a numeric field by path and marks it present.
func (a *Account) Set(path string, v decimal.Decimal) bool {
	p := a.field(path)
	if p == nil {
		return false
	}
	*p = v
	if a.Present == nil {
		a.Present = FieldSet{}
	}
	a.Present[path] = true
	return true
}

func (a *Account) field(path string) *decimal.Decimal {
	switch path {
	case FieldMonthlyIncome:
		return &a.Financials.MonthlyIncome
	case FieldMonthlyExpenses:
		return &a.Financials.MonthlyExpenses
	case FieldMonthlyBudget:
		return &a.Financials.MonthlyBudget
	case FieldBudgetSpent:
		return &a.Financials.BudgetSpent
	case FieldNetAfterExpenses:
		return &a.Financials.NetAfterExpenses
	case FieldCurrentBalance:
		return &a.Balances.CurrentBalance
	case FieldEmergencyFundBalance:
		return &a.Balances.EmergencyFundBalance
	case FieldEmergencyFundGoal:
		return &a.Balances.EmergencyFundGoal
	case FieldCreditLimit:
		return &a.Credit.Limit
	case FieldCreditUsed:
		return &a.Credit.Used
	case FieldCreditAPR:
		return &a.Credit.APR
	case FieldCreditScore:
		return &a.Credit.Score
	}
	return nil
}

// IsNumericField reports whether path names a numeric account field.
func IsNumericField(path string) bool {
	return (&Account{}).field(path) != nil
}

// NetAfterExpenses is (income − expenses) − budgetSpent.
func (a *Account) NetAfterExpenses() decimal.Decimal {
	f := a.Financials
	return f.MonthlyIncome.Sub(f.MonthlyExpenses).Sub(f.BudgetSpent)
}

// FreeCash is income minus expenses minus budget minus the emergency fund.
func (a *Account) FreeCash() decimal.Decimal {
	f := a.Financials
	return f.MonthlyIncome.Sub(f.MonthlyExpenses).Sub(f.MonthlyBudget).Sub(a.Balances.EmergencyFundBalance)
}
