// Package credit contains the pure numeric policy of the revolving credit
// facility: the initial limit estimate and the simple-interest installment plan.
package credit

import (
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
	"github.com/shopspring/decimal"
)

var (
	baseMultiplier  = decimal.RequireFromString("0.8")
	riskMultiplier  = decimal.RequireFromString("0.7")
	incomeCapRatio  = decimal.RequireFromString("0.60")
	absoluteCap     = decimal.NewFromInt(500000)
	minimumLimit    = decimal.NewFromInt(10000)
	limitRoundingTo = decimal.NewFromInt(500)
	two             = decimal.NewFromInt(2)
)

// LimitBreakdown exposes the intermediate terms of an estimate so callers can
// explain a limit to the user.
type LimitBreakdown struct {
	Disposable   decimal.Decimal `json:"disposable"`
	Cushion      decimal.Decimal `json:"cushion"`
	ExpenseRatio decimal.Decimal `json:"expenseRatio"`
	Stability    decimal.Decimal `json:"stability"`
	Prudence     decimal.Decimal `json:"prudence"`
	RiskScore    decimal.Decimal `json:"riskScore"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	RawLimit     decimal.Decimal `json:"rawLimit"`
	Cap          decimal.Decimal `json:"cap"`
	Limit        decimal.Decimal `json:"limit"`
}

// EstimateLimit maps monthly income, expenses and budget to an initial
// revolving credit limit. The result is a non-negative multiple of 500.
func EstimateLimit(income, expenses, budget decimal.Decimal) decimal.Decimal {
	return ExplainLimit(income, expenses, budget).Limit
}

// ExplainLimit runs the estimate and returns every intermediate term.
func ExplainLimit(income, expenses, budget decimal.Decimal) LimitBreakdown {
	income = money.NonNegative(income)
	expenses = money.NonNegative(expenses)
	budget = money.NonNegative(budget)

	var b LimitBreakdown
	b.Disposable = money.NonNegative(income.Sub(expenses))
	budgetClamped := money.Clamp(budget, decimal.Zero, b.Disposable)
	b.Cushion = b.Disposable.Sub(budgetClamped)

	if income.IsPositive() {
		b.ExpenseRatio = money.Clamp(expenses.Div(income), decimal.Zero, decimal.NewFromInt(1))
	} else {
		b.ExpenseRatio = decimal.NewFromInt(1)
	}
	b.Stability = decimal.NewFromInt(1).Sub(b.ExpenseRatio)

	if b.Disposable.IsPositive() {
		b.Prudence = decimal.NewFromInt(1).Sub(budgetClamped.Div(b.Disposable))
	} else {
		b.Prudence = decimal.Zero
	}

	b.RiskScore = b.Stability.Add(b.Prudence).Div(two)
	b.Multiplier = baseMultiplier.Add(riskMultiplier.Mul(b.RiskScore))
	b.RawLimit = b.Cushion.Mul(b.Multiplier)

	b.Cap = decimal.Min(income.Mul(incomeCapRatio), absoluteCap)
	limit := decimal.Min(b.RawLimit, b.Cap)
	if income.IsPositive() {
		limit = decimal.Max(limit, minimumLimit)
	} else {
		limit = decimal.Zero
	}
	b.Limit = money.RoundToNearest(limit, limitRoundingTo)
	return b
}
