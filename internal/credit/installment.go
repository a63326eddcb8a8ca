package credit

import (
	"github.com/shopspring/decimal"
)

// Plan is a simple-interest installment plan. Values are unrounded.
type Plan struct {
	Principal      decimal.Decimal `json:"principal"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	Months         int             `json:"months"`
	Interest       decimal.Decimal `json:"interest"`
	Total          decimal.Decimal `json:"total"`
	PerInstallment decimal.Decimal `json:"perInstallment"`
}

// PlanInstallments computes interest = principal × rate × months (no
// compounding), the total payable and the per-installment amount.
func PlanInstallments(principal, monthlyRate decimal.Decimal, months int) Plan {
	p := Plan{
		Principal:   principal,
		MonthlyRate: monthlyRate,
		Months:      months,
	}
	if months > 0 {
		p.Interest = principal.Mul(monthlyRate).Mul(decimal.NewFromInt(int64(months)))
	}
	p.Total = principal.Add(p.Interest)
	if months > 0 {
		p.PerInstallment = p.Total.Div(decimal.NewFromInt(int64(months)))
	}
	return p
}

// Remaining is what is still owed after the first n installments.
func (p Plan) Remaining(paid int) decimal.Decimal {
	if paid <= 0 {
		return p.Total
	}
	if paid >= p.Months {
		return decimal.Zero
	}
	return p.Total.Sub(p.PerInstallment.Mul(decimal.NewFromInt(int64(paid))))
}
