package credit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExplainLimit_ScenarioA(t *testing.T) {
	b := ExplainLimit(d("100000"), d("40000"), d("30000"))

	assert.Equal(t, "60000", b.Disposable.String())
	assert.Equal(t, "30000", b.Cushion.String())
	assert.Equal(t, "0.4", b.ExpenseRatio.String())
	assert.Equal(t, "0.6", b.Stability.String())
	assert.Equal(t, "0.5", b.Prudence.String())
	assert.Equal(t, "0.55", b.RiskScore.String())
	assert.Equal(t, "1.185", b.Multiplier.String())
	assert.Equal(t, "35550", b.RawLimit.String())
	assert.Equal(t, "60000", b.Cap.String())
	assert.Equal(t, "35500", b.Limit.String())
}

func TestEstimateLimit(t *testing.T) {
	tests := []struct {
		name     string
		income   string
		expenses string
		budget   string
		expected string
	}{
		{name: "no income", income: "0", expenses: "0", budget: "0", expected: "0"},
		{name: "negative inputs clamp to zero", income: "-5", expenses: "-5", budget: "-5", expected: "0"},
		{name: "expenses exceed income floors at minimum", income: "50000", expenses: "80000", budget: "0", expected: "10000"},
		{name: "everything budgeted floors at minimum", income: "50000", expenses: "10000", budget: "40000", expected: "10000"},
		{name: "budget above disposable is clamped", income: "50000", expenses: "10000", budget: "90000", expected: "10000"},
		{name: "capped by income share", income: "100000", expenses: "0", budget: "0", expected: "60000"},
		{name: "capped by absolute ceiling", income: "2000000", expenses: "0", budget: "0", expected: "500000"},
		{name: "rounding can land above the income cap", income: "100750", expenses: "0", budget: "0", expected: "60500"},
		{name: "floor wins over a smaller income cap", income: "10000", expenses: "0", budget: "0", expected: "10000"},
		{name: "floor wins just under the crossover", income: "16000", expenses: "0", budget: "0", expected: "10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateLimit(d(tt.income), d(tt.expenses), d(tt.budget))
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestExplainLimit_CapAndFloor(t *testing.T) {
	t.Run("cap is applied before rounding", func(t *testing.T) {
		b := ExplainLimit(d("100750"), d("0"), d("0"))
		assert.Equal(t, "151125", b.RawLimit.String())
		assert.Equal(t, "60450", b.Cap.String())
		assert.Equal(t, "60500", b.Limit.String())
		assert.True(t, b.Limit.GreaterThan(b.Cap))
	})

	t.Run("floor exceeds the income cap", func(t *testing.T) {
		b := ExplainLimit(d("10000"), d("0"), d("0"))
		assert.Equal(t, "15000", b.RawLimit.String())
		assert.Equal(t, "6000", b.Cap.String())
		assert.Equal(t, "10000", b.Limit.String())
		assert.True(t, b.Limit.GreaterThan(b.Cap))
	})
}

func TestEstimateLimit_Bounds(t *testing.T) {
	five := d("500")
	halfStep := d("250")
	floor := d("10000")
	for income := int64(5000); income <= 1000000; income += 47530 {
		for _, expensePct := range []int64{0, 10, 35, 60, 90} {
			expenses := income * expensePct / 100
			disposable := income - expenses
			for _, budgetPct := range []int64{0, 25, 50, 100} {
				budget := disposable * budgetPct / 100

				got := EstimateLimit(decimal.NewFromInt(income), decimal.NewFromInt(expenses), decimal.NewFromInt(budget))

				assert.False(t, got.IsNegative())
				assert.True(t, got.Mod(five).IsZero(), "limit %s is not a multiple of 500", got)
				assert.True(t, got.GreaterThanOrEqual(floor), "limit %s below floor", got)

				// The floor can exceed the cap, and rounding to 500 can pass
				// the cap by at most half a step.
				ceiling := decimal.Max(decimal.Min(decimal.NewFromInt(income).Mul(d("0.6")), d("500000")), floor)
				assert.True(t, got.LessThanOrEqual(ceiling.Add(halfStep)), "limit %s above cap %s (income %d)", got, ceiling, income)
			}
		}
	}
}
