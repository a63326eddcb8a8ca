package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kusalyaa/SpendMart-sub000/internal/credit"
	"github.com/kusalyaa/SpendMart-sub000/internal/extraction"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
	"github.com/kusalyaa/SpendMart-sub000/internal/search"
)

// Empty is used by procedures that take or return nothing.
type Empty struct{}

type SetupIncomeRequest struct {
	MonthlyIncome   decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses decimal.Decimal `json:"monthlyExpenses"`
	MonthlyBudget   decimal.Decimal `json:"monthlyBudget"`
}

type AccountResponse struct {
	Account *models.Account `json:"account"`
	// Available is the unused part of the credit limit.
	Available decimal.Decimal `json:"available"`
	FreeCash  decimal.Decimal `json:"freeCash"`
}

type EstimateCreditLimitRequest struct {
	MonthlyIncome   decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpenses decimal.Decimal `json:"monthlyExpenses"`
	MonthlyBudget   decimal.Decimal `json:"monthlyBudget"`
}

type EstimateCreditLimitResponse struct {
	Limit     decimal.Decimal       `json:"limit"`
	Breakdown credit.LimitBreakdown `json:"breakdown"`
}

type QuoteInstallmentsRequest struct {
	Principal string `json:"principal"`
	Months    []int  `json:"months"`
}

type QuoteInstallmentsResponse struct {
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
	Quotes      []QuoteView     `json:"quotes"`
}

// QuoteView is a plan with display-rounded amounts.
type QuoteView struct {
	Months         int             `json:"months"`
	Interest       decimal.Decimal `json:"interest"`
	Total          decimal.Decimal `json:"total"`
	PerInstallment decimal.Decimal `json:"perInstallment"`
}

type SubmitPurchaseRequest struct {
	purchase.Input
}

type SubmitPurchaseResponse struct {
	ItemID    string              `json:"itemId,omitempty"`
	Item      *ItemView           `json:"item,omitempty"`
	Dues      []models.Due        `json:"dues,omitempty"`
	Shortfall *purchase.Shortfall `json:"shortfall,omitempty"`
}

// ItemView is the wire form of an item and its payment variant.
type ItemView struct {
	ID          string               `json:"id"`
	CategoryID  string               `json:"categoryId"`
	Title       string               `json:"title"`
	Amount      decimal.Decimal      `json:"amount"`
	Date        time.Time            `json:"date"`
	Status      models.ItemStatus    `json:"status"`
	Method      models.PaymentMethod `json:"paymentMethod"`
	Payment     models.Payment       `json:"payment,omitempty"`
	Note        string               `json:"note,omitempty"`
	ReceiptPath string               `json:"receiptPath,omitempty"`
	NoEffects   bool                 `json:"noEffects,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

type GetItemRequest struct {
	CategoryID string `json:"categoryId"`
	ItemID     string `json:"itemId"`
}

type GetItemResponse struct {
	Item *ItemView `json:"item"`
}

type ListItemsRequest struct {
	CategoryID string `json:"categoryId"`
	PageSize   int32  `json:"pageSize"`
	PageToken  string `json:"pageToken"`
}

type ListItemsResponse struct {
	Items         []*ItemView `json:"items"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

type SearchItemsRequest struct {
	Query      string               `json:"query"`
	CategoryID string               `json:"categoryId"`
	Method     models.PaymentMethod `json:"paymentMethod"`
	AmountMin  decimal.Decimal      `json:"amountMin"`
	AmountMax  decimal.Decimal      `json:"amountMax"`
	StartDate  *time.Time           `json:"startDate"`
	EndDate    *time.Time           `json:"endDate"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
}

type SearchItemsResponse struct {
	Hits       []search.Hit `json:"hits"`
	TotalCount int          `json:"totalCount"`
	TotalPages int          `json:"totalPages"`
	Page       int          `json:"page"`
}

type ListDuesRequest struct {
	// Status filters by "pending" or "paid"; empty lists both.
	Status    models.DueStatus `json:"status"`
	PageSize  int32            `json:"pageSize"`
	PageToken string           `json:"pageToken"`
}

type ListDuesResponse struct {
	Dues          []*models.Due `json:"dues"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

type MarkDuePaidRequest struct {
	DueID string `json:"dueId"`
}

type MarkDuePaidResponse struct {
	Due *models.Due `json:"due"`
	// Changed is false when the due had already been paid.
	Changed bool `json:"changed"`
}

type ExportDuesRequest struct {
	Status models.DueStatus `json:"status"`
}

type ExportDuesResponse struct {
	Data        []byte          `json:"data"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"contentType"`
	RowCount    int             `json:"rowCount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ExtractReceiptRequest struct {
	DocumentData []byte          `json:"documentData"`
	Filename     string          `json:"filename"`
	ContentType  string          `json:"contentType"`
	Draft        *purchase.Input `json:"draft,omitempty"`
	// Archive stores the original document in the receipts bucket.
	Archive bool `json:"archive"`
}

type ExtractReceiptResponse struct {
	Merchant    string              `json:"merchant,omitempty"`
	Amount      decimal.NullDecimal `json:"amount"`
	Date        *time.Time          `json:"date,omitempty"`
	RawText     string              `json:"rawText,omitempty"`
	Confidence  float64             `json:"confidence"`
	Source      string              `json:"source"`
	Draft       purchase.Input      `json:"draft"`
	ReceiptPath string              `json:"receiptPath,omitempty"`
}

type RegisterPushTokenRequest struct {
	FCMToken string `json:"fcmToken"`
}

type DispatchRemindersResponse struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func itemView(item *models.Item) *ItemView {
	if item == nil {
		return nil
	}
	return &ItemView{
		ID:          item.ID,
		CategoryID:  item.CategoryID,
		Title:       item.Title,
		Amount:      item.Amount,
		Date:        item.Date,
		Status:      item.Status,
		Method:      item.Method(),
		Payment:     item.Payment,
		Note:        item.Note,
		ReceiptPath: item.ReceiptPath,
		NoEffects:   item.NoEffects,
		CreatedAt:   item.CreatedAt,
	}
}

func receiptResponse(r *extraction.Receipt, draft purchase.Input) *ExtractReceiptResponse {
	return &ExtractReceiptResponse{
		Merchant:   r.Merchant,
		Amount:     r.Amount,
		Date:       r.Date,
		RawText:    r.RawText,
		Confidence: r.Confidence,
		Source:     r.Source,
		Draft:      draft,
	}
}
