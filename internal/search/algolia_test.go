package search

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
)

func TestBuildFilters(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		params SearchParams
		want   string
	}{
		{
			name:   "user only",
			params: SearchParams{UserID: "u1"},
			want:   `UserId:"u1"`,
		},
		{
			name: "all filters",
			params: SearchParams{
				UserID:     "u1",
				CategoryID: "groceries",
				Method:     models.PaymentCredit,
				AmountMin:  decimal.NewFromInt(100),
				AmountMax:  decimal.RequireFromString("2500.5"),
				StartDate:  &start,
				EndDate:    &end,
			},
			want: `UserId:"u1" AND CategoryId:"groceries" AND Method:"Credit" AND Amount >= 100 AND Amount <= 2500.5` +
				` AND DateUnix >= 1740787200 AND DateUnix <= 1743379200`,
		},
		{
			name:   "zero amounts ignored",
			params: SearchParams{UserID: "u1", AmountMin: decimal.Zero},
			want:   `UserId:"u1"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildFilters(tc.params))
		})
	}
}

func TestItemRecordRoundTrip(t *testing.T) {
	item := &models.Item{
		ID:         "item1",
		UserID:     "u1",
		CategoryID: "electronics",
		Title:      "Phone",
		Amount:     decimal.RequireFromString("12000.50"),
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:     models.StatusToBePaid,
		Payment:    models.CreditPayment{},
	}

	record := ItemRecord(item)
	assert.Equal(t, "item1", record["objectID"])
	assert.Equal(t, "Credit", record["Method"])

	// Algolia returns numbers as float64.
	record["DateUnix"] = float64(item.Date.Unix())
	hit, ok := recordToHit("", record)
	require.True(t, ok)
	assert.Equal(t, "item1", hit.ItemID)
	assert.Equal(t, "electronics", hit.CategoryID)
	assert.True(t, item.Amount.Equal(hit.Amount))
	assert.True(t, item.Date.Equal(hit.Date))
	assert.Equal(t, "To be paid", hit.Status)
}

func TestRecordToHitWithoutID(t *testing.T) {
	_, ok := recordToHit("", map[string]any{"Title": "orphan"})
	assert.False(t, ok)
}

func TestRecordToHitFloatAmount(t *testing.T) {
	hit, ok := recordToHit("x", map[string]any{"Amount": 45.5})
	require.True(t, ok)
	assert.Equal(t, "45.5", hit.Amount.String())
}

func TestNewAlgoliaClientRequiresCredentials(t *testing.T) {
	_, err := NewAlgoliaClient(Config{AppID: "app"}, nil)
	assert.Error(t, err)
}
