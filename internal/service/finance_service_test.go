package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/credit"
	"github.com/kusalyaa/SpendMart-sub000/internal/extraction"
	"github.com/kusalyaa/SpendMart-sub000/internal/ledger"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
)

func TestSetupIncomeAndGetAccount(t *testing.T) {
	f := newTestService(t)
	ctx := testContextWithUser("u1")

	resp, err := f.svc.SetupIncome(ctx, connect.NewRequest(&SetupIncomeRequest{
		MonthlyIncome:   dec(100000),
		MonthlyExpenses: dec(40000),
		MonthlyBudget:   dec(30000),
	}))
	require.NoError(t, err)

	acct := resp.Msg.Account
	assert.True(t, acct.Balances.CurrentBalance.Equal(dec(60000)))
	assert.True(t, acct.Financials.NetAfterExpenses.Equal(dec(60000)))
	assert.True(t, acct.Credit.Limit.Equal(credit.EstimateLimit(dec(100000), dec(40000), dec(30000))))
	assert.True(t, resp.Msg.FreeCash.Equal(dec(30000)))
	assert.True(t, resp.Msg.Available.Equal(acct.Credit.Limit))

	got, err := f.svc.GetAccount(ctx, connect.NewRequest(&Empty{}))
	require.NoError(t, err)
	assert.True(t, got.Msg.Account.Balances.CurrentBalance.Equal(dec(60000)))
}

func TestSetupIncomeRejectsNegativeAmounts(t *testing.T) {
	f := newTestService(t)
	_, err := f.svc.SetupIncome(testContextWithUser("u1"), connect.NewRequest(&SetupIncomeRequest{
		MonthlyIncome: dec(-1),
	}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestHandlersRequireAuth(t *testing.T) {
	f := newTestService(t)
	ctx := context.Background()

	_, err := f.svc.GetAccount(ctx, connect.NewRequest(&Empty{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = f.svc.SubmitPurchase(ctx, connect.NewRequest(&SubmitPurchaseRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = f.svc.ListDues(ctx, connect.NewRequest(&ListDuesRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestEstimateCreditLimit(t *testing.T) {
	f := newTestService(t)

	resp, err := f.svc.EstimateCreditLimit(context.Background(), connect.NewRequest(&EstimateCreditLimitRequest{
		MonthlyIncome:   dec(100000),
		MonthlyExpenses: dec(40000),
		MonthlyBudget:   dec(30000),
	}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Limit.Equal(credit.EstimateLimit(dec(100000), dec(40000), dec(30000))))
	assert.True(t, resp.Msg.Breakdown.Disposable.Equal(dec(60000)))
	assert.True(t, resp.Msg.Breakdown.Cushion.Equal(dec(30000)))

	_, err = f.svc.EstimateCreditLimit(context.Background(), connect.NewRequest(&EstimateCreditLimitRequest{
		MonthlyExpenses: dec(-5),
	}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestQuoteInstallments(t *testing.T) {
	f := newTestService(t)

	t.Run("configured terms", func(t *testing.T) {
		resp, err := f.svc.QuoteInstallments(context.Background(), connect.NewRequest(&QuoteInstallmentsRequest{Principal: "2000"}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Quotes, 3)

		q := resp.Msg.Quotes[0]
		assert.Equal(t, 3, q.Months)
		assert.Equal(t, "90.00", q.Interest.StringFixed(2))
		assert.Equal(t, "2090.00", q.Total.StringFixed(2))
		assert.Equal(t, "696.67", q.PerInstallment.StringFixed(2))
	})

	t.Run("explicit terms", func(t *testing.T) {
		resp, err := f.svc.QuoteInstallments(context.Background(), connect.NewRequest(&QuoteInstallmentsRequest{
			Principal: "12,000",
			Months:    []int{6},
		}))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Quotes, 1)
		assert.Equal(t, "2180.00", resp.Msg.Quotes[0].PerInstallment.StringFixed(2))
	})

	t.Run("bad principal", func(t *testing.T) {
		_, err := f.svc.QuoteInstallments(context.Background(), connect.NewRequest(&QuoteInstallmentsRequest{Principal: "abc"}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}

func TestEmergencyFund(t *testing.T) {
	f := newTestService(t)
	ctx := testContextWithUser("u1")
	_, err := f.svc.SetupIncome(ctx, connect.NewRequest(&SetupIncomeRequest{
		MonthlyIncome:   dec(100000),
		MonthlyExpenses: dec(40000),
		MonthlyBudget:   dec(30000),
	}))
	require.NoError(t, err)

	resp, err := f.svc.TopUpEmergencyFund(ctx, connect.NewRequest(&AmountRequest{Amount: dec(5000)}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.Account.Balances.EmergencyFundBalance.Equal(dec(5000)))
	assert.True(t, resp.Msg.FreeCash.Equal(dec(25000)))

	_, err = f.svc.TopUpEmergencyFund(ctx, connect.NewRequest(&AmountRequest{Amount: dec(40000)}))
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	_, err = f.svc.TopUpEmergencyFund(ctx, connect.NewRequest(&AmountRequest{Amount: dec(0)}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	goal, err := f.svc.SetEmergencyFundGoal(ctx, connect.NewRequest(&AmountRequest{Amount: dec(180000)}))
	require.NoError(t, err)
	assert.True(t, goal.Msg.Account.Balances.EmergencyFundGoal.Equal(dec(180000)))
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{"validation", &purchase.ValidationError{Field: "amount", Message: "required"}, connect.CodeInvalidArgument},
		{"unauthenticated", purchase.ErrUnauthenticated, connect.CodeUnauthenticated},
		{"not found", fmt.Errorf("get: %w", store.ErrNotFound), connect.CodeNotFound},
		{"negative", ledger.ErrNegativeAmount, connect.CodeInvalidArgument},
		{"free cash", ledger.ErrInsufficientFreeCash, connect.CodeFailedPrecondition},
		{"persistence", &purchase.PersistenceError{Step: "commit", Err: errors.New("deadline")}, connect.CodeInternal},
		{"ocr down", &extraction.ExtractionError{Code: extraction.ErrOCRUnavailable}, connect.CodeUnavailable},
		{"bad document", &extraction.ExtractionError{Code: extraction.ErrInvalidDocument}, connect.CodeInvalidArgument},
		{"nothing found", &extraction.ExtractionError{Code: extraction.ErrNothingFound}, connect.CodeNotFound},
		{"passthrough", connect.NewError(connect.CodeAborted, errors.New("x")), connect.CodeAborted},
		{"unknown", errors.New("boom"), connect.CodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, connect.CodeOf(toConnectError("op", tc.err)))
		})
	}
	assert.NoError(t, toConnectError("op", nil))
}

func TestPersistenceErrorKeepsStoreMessage(t *testing.T) {
	err := toConnectError("submit", &purchase.PersistenceError{Step: "commit purchase", Err: errors.New("quota exceeded")})
	var connectErr *connect.Error
	require.ErrorAs(t, err, &connectErr)
	assert.Contains(t, connectErr.Message(), "quota exceeded")
}

func TestFinanceServiceHandler(t *testing.T) {
	f := newTestService(t)
	path, handler := NewFinanceServiceHandler(f.svc, connect.WithInterceptors(auth.LocalDevInterceptor()))
	assert.Equal(t, ServicePath, path)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	setup := connect.NewClient[SetupIncomeRequest, AccountResponse](
		srv.Client(), srv.URL+ServicePath+"SetupIncome", connect.WithCodec(JSONCodec{}))
	resp, err := setup.CallUnary(context.Background(), connect.NewRequest(&SetupIncomeRequest{
		MonthlyIncome:   dec(100000),
		MonthlyExpenses: dec(40000),
		MonthlyBudget:   dec(30000),
	}))
	require.NoError(t, err)
	assert.True(t, resp.Msg.FreeCash.Equal(dec(30000)))

	acct, err := f.store.GetAccount(context.Background(), auth.LocalDevUserID)
	require.NoError(t, err)
	assert.True(t, acct.Balances.CurrentBalance.Equal(dec(60000)))

	quote := connect.NewClient[QuoteInstallmentsRequest, QuoteInstallmentsResponse](
		srv.Client(), srv.URL+ServicePath+"QuoteInstallments", connect.WithCodec(JSONCodec{}))
	_, err = quote.CallUnary(context.Background(), connect.NewRequest(&QuoteInstallmentsRequest{Principal: ""}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
