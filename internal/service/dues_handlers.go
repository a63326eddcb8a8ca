package service

import (
	"context"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
)

// ListDues pages through the caller's dues, soonest first.
func (s *FinanceService) ListDues(ctx context.Context, req *connect.Request[ListDuesRequest]) (*connect.Response[ListDuesResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validDueStatus(req.Msg.Status); err != nil {
		return nil, err
	}

	pageSize := int32(auth.NormalizePageSize(req.Msg.PageSize))
	list, next, err := s.dues.List(ctx, claims.UID, req.Msg.Status, pageSize, req.Msg.PageToken)
	if err != nil {
		return nil, toConnectError("list dues", err)
	}
	return connect.NewResponse(&ListDuesResponse{Dues: list, NextPageToken: next}), nil
}

// MarkDuePaid settles one installment. Paying an already paid due is a no-op.
func (s *FinanceService) MarkDuePaid(ctx context.Context, req *connect.Request[MarkDuePaidRequest]) (*connect.Response[MarkDuePaidResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.DueID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("dueId is required"))
	}

	due, changed, err := s.dues.MarkPaid(ctx, claims.UID, req.Msg.DueID)
	if err != nil {
		return nil, toConnectError("mark due paid", err)
	}
	return connect.NewResponse(&MarkDuePaidResponse{Due: due, Changed: changed}), nil
}

// dueRow is one line of the dues CSV export.
type dueRow struct {
	DueID       string `csv:"DueID"`
	ItemID      string `csv:"ItemID"`
	Title       string `csv:"Title"`
	Installment string `csv:"Installment"`
	DueDate     string `csv:"DueDate"`
	Amount      string `csv:"Amount"`
	Currency    string `csv:"Currency"`
	Status      string `csv:"Status"`
	PaidAt      string `csv:"PaidAt"`
}

// ExportDues renders the caller's dues as CSV.
func (s *FinanceService) ExportDues(ctx context.Context, req *connect.Request[ExportDuesRequest]) (*connect.Response[ExportDuesResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validDueStatus(req.Msg.Status); err != nil {
		return nil, err
	}

	var all []*models.Due
	var token string
	for {
		page, next, err := s.dues.List(ctx, claims.UID, req.Msg.Status, 500, token)
		if err != nil {
			return nil, toConnectError("export dues", err)
		}
		all = append(all, page...)
		if next == "" {
			break
		}
		token = next
	}

	data, err := renderDuesCSV(all)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("render dues csv: %w", err))
	}

	return connect.NewResponse(&ExportDuesResponse{
		Data:        data,
		Filename:    fmt.Sprintf("spendmart-dues-%s.csv", time.Now().Format("2006-01-02")),
		ContentType: "text/csv",
		RowCount:    len(all),
		Outstanding: money.Round(outstanding(all)),
	}), nil
}

func renderDuesCSV(list []*models.Due) ([]byte, error) {
	rows := make([]*dueRow, 0, len(list))
	for _, d := range list {
		row := &dueRow{
			DueID:       d.ID,
			ItemID:      d.ItemID,
			Title:       d.Title,
			Installment: fmt.Sprintf("%d/%d", d.InstallmentIndex, d.Installments),
			DueDate:     d.DueDate.Format("2006-01-02"),
			Amount:      money.Round(d.Amount).StringFixed(money.Places),
			Currency:    money.Currency,
			Status:      string(d.Status),
		}
		if d.PaidAt != nil {
			row.PaidAt = d.PaidAt.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return gocsv.MarshalBytes(&rows)
}

// outstanding sums the amounts of pending dues.
func outstanding(list []*models.Due) decimal.Decimal {
	total := decimal.Zero
	for _, d := range list {
		if d.Status == models.DuePending {
			total = total.Add(d.Amount)
		}
	}
	return total
}

func validDueStatus(status models.DueStatus) error {
	switch status {
	case "", models.DuePending, models.DuePaid:
		return nil
	}
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown due status %q", status))
}
