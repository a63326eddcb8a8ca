package purchase

import (
	"strings"

	"github.com/kusalyaa/SpendMart-sub000/internal/extraction"
)

// MergeReceipt fills empty draft fields from an extracted receipt. Values the
// user already entered win; the result still has to pass Submit's validation.
func MergeReceipt(draft Input, receipt *extraction.Receipt) Input {
	if receipt == nil {
		return draft
	}
	if strings.TrimSpace(draft.Title) == "" && receipt.Merchant != "" {
		draft.Title = receipt.Merchant
	}
	if strings.TrimSpace(draft.Amount) == "" && receipt.Amount.Valid {
		draft.Amount = receipt.Amount.Decimal.StringFixed(2)
	}
	if draft.Date.IsZero() && receipt.Date != nil {
		draft.Date = *receipt.Date
	}
	return draft
}
