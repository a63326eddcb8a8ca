package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
)

// creditPurchase records a 12,000 credit purchase over 6 months with no
// first payment, leaving six pending dues of 2,180.
func creditPurchase(t *testing.T, f *testFixture) (context.Context, *SubmitPurchaseResponse) {
	t.Helper()
	ctx := setupWallet(t, f, 100000, 40000)
	resp, err := submit(ctx, f, purchase.Input{
		CategoryID:   "home",
		Title:        "Fridge",
		Amount:       "12000",
		Method:       models.PaymentCredit,
		Status:       models.StatusToBePaid,
		Installments: 6,
	})
	require.NoError(t, err)
	require.Len(t, resp.Dues, 6)
	return ctx, resp
}

func TestListDues(t *testing.T) {
	f := newTestService(t)
	ctx, purchased := creditPurchase(t, f)

	resp, err := f.svc.ListDues(ctx, connect.NewRequest(&ListDuesRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Dues, 6)
	assert.Equal(t, purchased.ItemID+"-1", resp.Msg.Dues[0].ID)
	for i := 1; i < len(resp.Msg.Dues); i++ {
		assert.False(t, resp.Msg.Dues[i].DueDate.Before(resp.Msg.Dues[i-1].DueDate))
	}

	page, err := f.svc.ListDues(ctx, connect.NewRequest(&ListDuesRequest{PageSize: 4}))
	require.NoError(t, err)
	assert.Len(t, page.Msg.Dues, 4)
	require.NotEmpty(t, page.Msg.NextPageToken)

	rest, err := f.svc.ListDues(ctx, connect.NewRequest(&ListDuesRequest{PageSize: 4, PageToken: page.Msg.NextPageToken}))
	require.NoError(t, err)
	assert.Len(t, rest.Msg.Dues, 2)
	assert.Empty(t, rest.Msg.NextPageToken)

	_, err = f.svc.ListDues(ctx, connect.NewRequest(&ListDuesRequest{Status: "overdue"}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestMarkDuePaid(t *testing.T) {
	f := newTestService(t)
	ctx, purchased := creditPurchase(t, f)
	dueID := purchased.Dues[0].ID

	before, err := f.store.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, before.Credit.Used.Equal(dec(13080)))

	resp, err := f.svc.MarkDuePaid(ctx, connect.NewRequest(&MarkDuePaidRequest{DueID: dueID}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Changed)
	assert.Equal(t, models.DuePaid, resp.Msg.Due.Status)
	require.NotNil(t, resp.Msg.Due.PaidAt)

	after, err := f.store.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, after.Credit.Used.Equal(dec(10900)))

	// Paying twice releases credit once.
	again, err := f.svc.MarkDuePaid(ctx, connect.NewRequest(&MarkDuePaidRequest{DueID: dueID}))
	require.NoError(t, err)
	assert.False(t, again.Msg.Changed)

	after, err = f.store.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, after.Credit.Used.Equal(dec(10900)))

	_, ok := f.store.Reminder(dueID)
	assert.False(t, ok, "reminder is cancelled")

	pending, err := f.svc.ListDues(ctx, connect.NewRequest(&ListDuesRequest{Status: models.DuePending}))
	require.NoError(t, err)
	assert.Len(t, pending.Msg.Dues, 5)
}

func TestMarkDuePaidErrors(t *testing.T) {
	f := newTestService(t)
	ctx := testContextWithUser("u1")

	_, err := f.svc.MarkDuePaid(ctx, connect.NewRequest(&MarkDuePaidRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = f.svc.MarkDuePaid(ctx, connect.NewRequest(&MarkDuePaidRequest{DueID: "nope-1"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestExportDues(t *testing.T) {
	f := newTestService(t)
	ctx, purchased := creditPurchase(t, f)

	_, err := f.svc.MarkDuePaid(ctx, connect.NewRequest(&MarkDuePaidRequest{DueID: purchased.Dues[0].ID}))
	require.NoError(t, err)

	resp, err := f.svc.ExportDues(ctx, connect.NewRequest(&ExportDuesRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Msg.RowCount)
	assert.Equal(t, "text/csv", resp.Msg.ContentType)
	assert.True(t, strings.HasPrefix(resp.Msg.Filename, "spendmart-dues-"))
	assert.True(t, resp.Msg.Outstanding.Equal(dec(10900)))

	lines := strings.Split(strings.TrimSpace(string(resp.Msg.Data)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "DueID,ItemID,Title,Installment,DueDate,Amount,Currency,Status,PaidAt", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], purchased.Dues[0].ID+","+purchased.ItemID+",Fridge,1/6,2025-04-01,2180.00,"+money.Currency+",paid,"))
	assert.True(t, strings.HasSuffix(lines[2], ",pending,"))

	pending, err := f.svc.ExportDues(ctx, connect.NewRequest(&ExportDuesRequest{Status: models.DuePending}))
	require.NoError(t, err)
	assert.Equal(t, 5, pending.Msg.RowCount)
}
