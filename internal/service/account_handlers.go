package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/credit"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
)

// SetupIncome records the user's monthly financials and seeds initial balances.
func (s *FinanceService) SetupIncome(ctx context.Context, req *connect.Request[SetupIncomeRequest]) (*connect.Response[AccountResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	acct, err := s.ledger.SetupIncome(ctx, claims.UID, msg.MonthlyIncome, msg.MonthlyExpenses, msg.MonthlyBudget)
	if err != nil {
		return nil, toConnectError("setup income", err)
	}

	s.log.WithField("user_id", claims.UID).Info("Income setup saved")
	return connect.NewResponse(accountResponse(acct)), nil
}

// GetAccount returns the account snapshot, repairing a missing credit limit.
func (s *FinanceService) GetAccount(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[AccountResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	acct, err := s.ledger.ReadSnapshot(ctx, claims.UID)
	if err != nil {
		return nil, toConnectError("get account", err)
	}
	return connect.NewResponse(accountResponse(acct)), nil
}

// EstimateCreditLimit is the offline limit calculator; it writes nothing.
func (s *FinanceService) EstimateCreditLimit(ctx context.Context, req *connect.Request[EstimateCreditLimitRequest]) (*connect.Response[EstimateCreditLimitResponse], error) {
	msg := req.Msg
	if msg.MonthlyIncome.IsNegative() || msg.MonthlyExpenses.IsNegative() || msg.MonthlyBudget.IsNegative() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amounts must not be negative"))
	}

	breakdown := credit.ExplainLimit(msg.MonthlyIncome, msg.MonthlyExpenses, msg.MonthlyBudget)
	return connect.NewResponse(&EstimateCreditLimitResponse{
		Limit:     breakdown.Limit,
		Breakdown: breakdown,
	}), nil
}

// QuoteInstallments prices a principal over the requested terms, or over the
// configured shortfall terms when none are given.
func (s *FinanceService) QuoteInstallments(ctx context.Context, req *connect.Request[QuoteInstallmentsRequest]) (*connect.Response[QuoteInstallmentsResponse], error) {
	principal, err := money.Parse(req.Msg.Principal)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	cfg := s.orchestrator.Config()
	terms := req.Msg.Months
	if len(terms) == 0 {
		terms = cfg.ShortfallTerms
	}

	resp := &QuoteInstallmentsResponse{MonthlyRate: cfg.MonthlyRate}
	for _, months := range terms {
		plan, err := s.orchestrator.Quote(principal, months)
		if err != nil {
			return nil, toConnectError("quote installments", err)
		}
		resp.Quotes = append(resp.Quotes, QuoteView{
			Months:         plan.Months,
			Interest:       money.Round(plan.Interest),
			Total:          money.Round(plan.Total),
			PerInstallment: money.Round(plan.PerInstallment),
		})
	}
	return connect.NewResponse(resp), nil
}

// TopUpEmergencyFund moves free cash into the emergency fund.
func (s *FinanceService) TopUpEmergencyFund(ctx context.Context, req *connect.Request[AmountRequest]) (*connect.Response[AccountResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	acct, err := s.ledger.TopUpEmergencyFund(ctx, claims.UID, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError("top up emergency fund", err)
	}
	return connect.NewResponse(accountResponse(acct)), nil
}

// SetEmergencyFundGoal stores the emergency fund target.
func (s *FinanceService) SetEmergencyFundGoal(ctx context.Context, req *connect.Request[AmountRequest]) (*connect.Response[AccountResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.SetEmergencyFundGoal(ctx, claims.UID, req.Msg.Amount); err != nil {
		return nil, toConnectError("set emergency fund goal", err)
	}
	acct, err := s.ledger.ReadSnapshot(ctx, claims.UID)
	if err != nil {
		return nil, toConnectError("get account", err)
	}
	return connect.NewResponse(accountResponse(acct)), nil
}

func accountResponse(acct *models.Account) *AccountResponse {
	return &AccountResponse{
		Account:   acct,
		Available: acct.Credit.Available(),
		FreeCash:  acct.FreeCash(),
	}
}
