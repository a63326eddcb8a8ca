package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how an item was paid for.
type PaymentMethod string

const (
	PaymentWallet       PaymentMethod = "Wallet"
	PaymentCredit       PaymentMethod = "Credit"
	PaymentWalletCredit PaymentMethod = "Wallet+Credit"
)

// ParsePaymentMethod accepts the persisted spelling.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentWallet, PaymentCredit, PaymentWalletCredit:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// ItemStatus is the settlement state chosen for an item.
type ItemStatus string

const (
	StatusPaid     ItemStatus = "Paid"
	StatusPay      ItemStatus = "Pay"
	StatusToBePaid ItemStatus = "To be paid"
)

// ParseItemStatus accepts the persisted spelling.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch ItemStatus(s) {
	case StatusPaid, StatusPay, StatusToBePaid:
		return ItemStatus(s), nil
	}
	return "", fmt.Errorf("unknown item status %q", s)
}

// PaidNow reports whether money leaves the user at purchase time.
func (s ItemStatus) PaidNow() bool {
	return s == StatusPaid || s == StatusPay
}

// Installments is a financed amount split into equal monthly payments.
type Installments struct {
	Count          int             `json:"installments"`
	MonthlyRate    decimal.Decimal `json:"interestMonthlyRate"`
	InterestTotal  decimal.Decimal `json:"interestTotal"`
	TotalPayable   decimal.Decimal `json:"totalPayable"`
	PerInstallment decimal.Decimal `json:"perInstallment"`
}

// Payment is the closed set of payment variants an item can carry.
type Payment interface {
	Method() PaymentMethod
	isPayment()
}

// WalletPayment is paid entirely from the wallet.
type WalletPayment struct{}

func (WalletPayment) Method() PaymentMethod { return PaymentWallet }
func (WalletPayment) isPayment()            {}

// CreditPayment finances the whole amount. When the first installment was
// settled at purchase time, FirstFromWallet + FirstOnCredit equals one
// installment.
type CreditPayment struct {
	Plan            Installments    `json:"plan"`
	FirstPaid       bool            `json:"firstPaid"`
	FirstFromWallet decimal.Decimal `json:"firstFromWallet"`
	FirstOnCredit   decimal.Decimal `json:"firstOnCredit"`
}

func (CreditPayment) Method() PaymentMethod { return PaymentCredit }
func (CreditPayment) isPayment()            {}

// SplitPayment drains the wallet and finances the remainder.
type SplitPayment struct {
	WalletPaid      decimal.Decimal `json:"walletPaid"`
	CreditPrincipal decimal.Decimal `json:"creditPrincipal"`
	Credit          Installments    `json:"credit"`
}

func (SplitPayment) Method() PaymentMethod { return PaymentWalletCredit }
func (SplitPayment) isPayment()            {}

// Item is an immutable purchase record.
type Item struct {
	ID          string
	UserID      string
	CategoryID  string
	Title       string
	Amount      decimal.Decimal
	Date        time.Time
	Status      ItemStatus
	Payment     Payment
	Note        string
	ReceiptPath string
	NoEffects   bool
	CreatedAt   time.Time
}

// Method is the payment method of the item's payment variant.
func (i *Item) Method() PaymentMethod {
	if i.Payment == nil {
		return PaymentWallet
	}
	return i.Payment.Method()
}
