package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
	"github.com/shopspring/decimal"
)

// itemDoc is the persisted shape of users/{uid}/categories/{cid}/items/{id}.
// The flat payment fields are the wire contract shared with other clients.
type itemDoc struct {
	UserID        string    `firestore:"userId"`
	Title         string    `firestore:"title"`
	Amount        float64   `firestore:"amount"`
	Date          time.Time `firestore:"date"`
	CategoryID    string    `firestore:"categoryId"`
	PaymentMethod string    `firestore:"paymentMethod"`
	Status        string    `firestore:"status"`

	Installments        int     `firestore:"installments,omitempty"`
	InterestMonthlyRate float64 `firestore:"interestMonthlyRate,omitempty"`
	InterestTotal       float64 `firestore:"interestTotal,omitempty"`
	TotalPayable        float64 `firestore:"totalPayable,omitempty"`
	PerInstallment      float64 `firestore:"perInstallment,omitempty"`
	FirstPaid           bool    `firestore:"firstInstallmentPaid,omitempty"`
	FirstFromWallet     float64 `firestore:"firstFromWallet,omitempty"`
	FirstOnCredit       float64 `firestore:"firstOnCredit,omitempty"`

	WalletPaid           float64 `firestore:"walletPaid,omitempty"`
	CreditPrincipal      float64 `firestore:"creditPrincipal,omitempty"`
	CreditInstallments   int     `firestore:"creditInstallments,omitempty"`
	CreditInterestTotal  float64 `firestore:"creditInterestTotal,omitempty"`
	CreditTotalPayable   float64 `firestore:"creditTotalPayable,omitempty"`
	CreditPerInstallment float64 `firestore:"creditPerInstallment,omitempty"`

	Note        string    `firestore:"note,omitempty"`
	ReceiptPath string    `firestore:"receiptPath,omitempty"`
	NoEffects   bool      `firestore:"noEffects,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// dueDoc is the persisted shape of users/{uid}/dues/{id}.
type dueDoc struct {
	UserID           string     `firestore:"userId"`
	ItemID           string     `firestore:"itemId"`
	CategoryID       string     `firestore:"categoryId"`
	Title            string     `firestore:"title"`
	InstallmentIndex int        `firestore:"installmentIndex"`
	Installments     int        `firestore:"installments"`
	Amount           float64    `firestore:"amount"`
	DueDate          time.Time  `firestore:"dueDate"`
	Status           string     `firestore:"status"`
	PaidAt           *time.Time `firestore:"paidAt"`
	CreatedAt        time.Time  `firestore:"createdAt"`
}

// reminderDoc is the persisted shape of reminders/{id}. SentAt is stored as
// an explicit null so pending reminders can be queried.
type reminderDoc struct {
	UserID string     `firestore:"userId"`
	Title  string     `firestore:"title"`
	Body   string     `firestore:"body"`
	FireAt time.Time  `firestore:"fireAt"`
	SentAt *time.Time `firestore:"sentAt"`
}

func itemToDoc(item *models.Item) itemDoc {
	doc := itemDoc{
		UserID:        item.UserID,
		Title:         item.Title,
		Amount:        money.ToWire(item.Amount),
		Date:          item.Date,
		CategoryID:    item.CategoryID,
		PaymentMethod: string(item.Method()),
		Status:        string(item.Status),
		Note:          item.Note,
		ReceiptPath:   item.ReceiptPath,
		NoEffects:     item.NoEffects,
		CreatedAt:     item.CreatedAt,
	}

	switch p := item.Payment.(type) {
	case models.CreditPayment:
		doc.Installments = p.Plan.Count
		doc.InterestMonthlyRate = money.RateToWire(p.Plan.MonthlyRate)
		doc.InterestTotal = money.ToWire(p.Plan.InterestTotal)
		doc.TotalPayable = money.ToWire(p.Plan.TotalPayable)
		doc.PerInstallment = money.ToWire(p.Plan.PerInstallment)
		doc.FirstPaid = p.FirstPaid
		doc.FirstFromWallet = money.ToWire(p.FirstFromWallet)
		doc.FirstOnCredit = money.ToWire(p.FirstOnCredit)
	case models.SplitPayment:
		doc.WalletPaid = money.ToWire(p.WalletPaid)
		doc.CreditPrincipal = money.ToWire(p.CreditPrincipal)
		doc.CreditInstallments = p.Credit.Count
		doc.InterestMonthlyRate = money.RateToWire(p.Credit.MonthlyRate)
		doc.CreditInterestTotal = money.ToWire(p.Credit.InterestTotal)
		doc.CreditTotalPayable = money.ToWire(p.Credit.TotalPayable)
		doc.CreditPerInstallment = money.ToWire(p.Credit.PerInstallment)
	}
	return doc
}

func itemFromDoc(id string, doc itemDoc) (*models.Item, error) {
	method, err := models.ParsePaymentMethod(doc.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, err)
	}
	status, err := models.ParseItemStatus(doc.Status)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, err)
	}

	item := &models.Item{
		ID:          id,
		UserID:      doc.UserID,
		CategoryID:  doc.CategoryID,
		Title:       doc.Title,
		Amount:      money.FromWire(doc.Amount),
		Date:        doc.Date,
		Status:      status,
		Note:        doc.Note,
		ReceiptPath: doc.ReceiptPath,
		NoEffects:   doc.NoEffects,
		CreatedAt:   doc.CreatedAt,
	}

	switch method {
	case models.PaymentWallet:
		item.Payment = models.WalletPayment{}
	case models.PaymentCredit:
		item.Payment = models.CreditPayment{
			Plan: models.Installments{
				Count:          doc.Installments,
				MonthlyRate:    money.FromWire(doc.InterestMonthlyRate),
				InterestTotal:  money.FromWire(doc.InterestTotal),
				TotalPayable:   money.FromWire(doc.TotalPayable),
				PerInstallment: money.FromWire(doc.PerInstallment),
			},
			FirstPaid:       doc.FirstPaid,
			FirstFromWallet: money.FromWire(doc.FirstFromWallet),
			FirstOnCredit:   money.FromWire(doc.FirstOnCredit),
		}
	case models.PaymentWalletCredit:
		item.Payment = models.SplitPayment{
			WalletPaid:      money.FromWire(doc.WalletPaid),
			CreditPrincipal: money.FromWire(doc.CreditPrincipal),
			Credit: models.Installments{
				Count:          doc.CreditInstallments,
				MonthlyRate:    money.FromWire(doc.InterestMonthlyRate),
				InterestTotal:  money.FromWire(doc.CreditInterestTotal),
				TotalPayable:   money.FromWire(doc.CreditTotalPayable),
				PerInstallment: money.FromWire(doc.CreditPerInstallment),
			},
		}
	}
	return item, nil
}

func dueToDoc(due models.Due) dueDoc {
	return dueDoc{
		UserID:           due.UserID,
		ItemID:           due.ItemID,
		CategoryID:       due.CategoryID,
		Title:            due.Title,
		InstallmentIndex: due.InstallmentIndex,
		Installments:     due.Installments,
		Amount:           money.ToWire(due.Amount),
		DueDate:          due.DueDate,
		Status:           string(due.Status),
		PaidAt:           due.PaidAt,
		CreatedAt:        due.CreatedAt,
	}
}

func dueFromDoc(id string, doc dueDoc) *models.Due {
	return &models.Due{
		ID:               id,
		UserID:           doc.UserID,
		ItemID:           doc.ItemID,
		CategoryID:       doc.CategoryID,
		Title:            doc.Title,
		InstallmentIndex: doc.InstallmentIndex,
		Installments:     doc.Installments,
		Amount:           money.FromWire(doc.Amount),
		DueDate:          doc.DueDate,
		Status:           models.DueStatus(doc.Status),
		PaidAt:           doc.PaidAt,
		CreatedAt:        doc.CreatedAt,
	}
}

func reminderToDoc(r *models.Reminder) reminderDoc {
	return reminderDoc{
		UserID: r.UserID,
		Title:  r.Title,
		Body:   r.Body,
		FireAt: r.FireAt,
		SentAt: r.SentAt,
	}
}

func reminderFromDoc(id string, doc reminderDoc) *models.Reminder {
	return &models.Reminder{
		ID:     id,
		UserID: doc.UserID,
		Title:  doc.Title,
		Body:   doc.Body,
		FireAt: doc.FireAt,
		SentAt: doc.SentAt,
	}
}

// accountFromData builds an account from the raw users/{uid} map. Numbers may
// arrive as int64 or float64 depending on which client wrote them.
func accountFromData(userID string, data map[string]interface{}) *models.Account {
	acct := models.NewAccount(userID)
	if data == nil {
		return acct
	}
	acct.Exists = true

	for _, path := range models.NumericFields {
		if v, ok := lookupPath(data, path); ok {
			if d, ok := toDecimal(v); ok {
				acct.Set(path, d)
			}
		}
	}

	if v, ok := lookupPath(data, "notifications.fcmToken"); ok {
		acct.Notifications.FCMToken, _ = v.(string)
	}
	if v, ok := lookupPath(data, "notifications.pushEnabled"); ok {
		acct.Notifications.PushEnabled, _ = v.(bool)
	}
	return acct
}

func lookupPath(data map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var cur interface{} = data
	for _, part := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}

// nest turns {"a.b": v} into {"a": {"b": v}} for merge writes.
func nest(flat map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for path, v := range flat {
		parts := strings.Split(path, ".")
		m := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := m[part].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				m[part] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = v
	}
	return out
}

// wireValue converts a field value for storage, keeping extra precision for rates.
func wireValue(path string, v decimal.Decimal) float64 {
	if path == models.FieldCreditAPR {
		return money.RateToWire(v)
	}
	return money.ToWire(v)
}
