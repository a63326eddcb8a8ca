package store

import (
	"testing"
	"time"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemDocRoundTrip(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("credit item keeps its plan and first installment split", func(t *testing.T) {
		item := &models.Item{
			ID:         "item-1",
			UserID:     "user-1",
			CategoryID: "cat-1",
			Title:      "Phone",
			Amount:     decimal.NewFromInt(40000),
			Date:       date,
			Status:     models.StatusPay,
			Payment: models.CreditPayment{
				Plan: models.Installments{
					Count:          6,
					MonthlyRate:    decimal.RequireFromString("0.015"),
					InterestTotal:  decimal.NewFromInt(3600),
					TotalPayable:   decimal.NewFromInt(43600),
					PerInstallment: decimal.RequireFromString("7266.67"),
				},
				FirstPaid:       true,
				FirstFromWallet: decimal.NewFromInt(5000),
				FirstOnCredit:   decimal.RequireFromString("2266.67"),
			},
			CreatedAt: date,
		}

		doc := itemToDoc(item)
		assert.Equal(t, "Credit", doc.PaymentMethod)
		assert.Equal(t, "Pay", doc.Status)
		assert.Equal(t, 6, doc.Installments)
		assert.Equal(t, 0.015, doc.InterestMonthlyRate)
		assert.Equal(t, 7266.67, doc.PerInstallment)
		assert.True(t, doc.FirstPaid)

		got, err := itemFromDoc("item-1", doc)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCredit, got.Method())
		p, ok := got.Payment.(models.CreditPayment)
		require.True(t, ok)
		assert.True(t, p.Plan.PerInstallment.Equal(decimal.RequireFromString("7266.67")))
		assert.True(t, p.FirstOnCredit.Equal(decimal.RequireFromString("2266.67")))
	})

	t.Run("split item uses the credit prefixed fields", func(t *testing.T) {
		item := &models.Item{
			ID:     "item-2",
			Amount: decimal.NewFromInt(10000),
			Status: models.StatusPay,
			Payment: models.SplitPayment{
				WalletPaid:      decimal.NewFromInt(3000),
				CreditPrincipal: decimal.NewFromInt(7000),
				Credit: models.Installments{
					Count:          3,
					MonthlyRate:    decimal.RequireFromString("0.015"),
					InterestTotal:  decimal.NewFromInt(315),
					TotalPayable:   decimal.NewFromInt(7315),
					PerInstallment: decimal.RequireFromString("2438.33"),
				},
			},
		}

		doc := itemToDoc(item)
		assert.Equal(t, "Wallet+Credit", doc.PaymentMethod)
		assert.Equal(t, 3, doc.CreditInstallments)
		assert.Equal(t, 0, doc.Installments)
		assert.Equal(t, 7315.0, doc.CreditTotalPayable)

		got, err := itemFromDoc("item-2", doc)
		require.NoError(t, err)
		p, ok := got.Payment.(models.SplitPayment)
		require.True(t, ok)
		assert.True(t, p.WalletPaid.Equal(decimal.NewFromInt(3000)))
		assert.Equal(t, 3, p.Credit.Count)
	})

	t.Run("unknown payment method is rejected", func(t *testing.T) {
		_, err := itemFromDoc("bad", itemDoc{PaymentMethod: "Cheque", Status: "Paid"})
		assert.Error(t, err)
	})
}

func TestAccountFromData(t *testing.T) {
	data := map[string]interface{}{
		"financials": map[string]interface{}{
			"monthlyIncome": int64(150000),
			"budgetSpent":   1250.5,
		},
		"credit": map[string]interface{}{
			"limit": int64(0),
		},
		"notifications": map[string]interface{}{
			"fcmToken":    "tok",
			"pushEnabled": true,
		},
	}

	acct := accountFromData("user-1", data)
	assert.True(t, acct.Exists)
	assert.True(t, acct.Financials.MonthlyIncome.Equal(decimal.NewFromInt(150000)))
	assert.True(t, acct.Financials.BudgetSpent.Equal(decimal.RequireFromString("1250.5")))
	assert.True(t, acct.Present.Has(models.FieldCreditLimit))
	assert.False(t, acct.Present.Has(models.FieldCurrentBalance))
	assert.Equal(t, "tok", acct.Notifications.FCMToken)
	assert.True(t, acct.Notifications.PushEnabled)

	empty := accountFromData("user-2", nil)
	assert.False(t, empty.Exists)
}

func TestNest(t *testing.T) {
	got := nest(map[string]interface{}{
		"financials.monthlyIncome": 1.0,
		"financials.budgetSpent":   2.0,
		"credit.used":              3.0,
		"top":                      4.0,
	})

	assert.Equal(t, map[string]interface{}{
		"financials": map[string]interface{}{
			"monthlyIncome": 1.0,
			"budgetSpent":   2.0,
		},
		"credit": map[string]interface{}{"used": 3.0},
		"top":    4.0,
	}, got)
}

func TestPageToken(t *testing.T) {
	token := EncodePageToken("users/u1/dues/d1")
	path, err := DecodePageToken(token)
	require.NoError(t, err)
	assert.Equal(t, "users/u1/dues/d1", path)

	assert.Equal(t, "", EncodePageToken(""))
	_, err = DecodePageToken("%%%")
	assert.Error(t, err)
}
