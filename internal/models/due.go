package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueStatus is pending until the installment is paid; it never goes back.
type DueStatus string

const (
	DuePending DueStatus = "pending"
	DuePaid    DueStatus = "paid"
)

// Due is one future installment of a financed item.
type Due struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	ItemID           string          `json:"itemId"`
	CategoryID       string          `json:"categoryId"`
	Title            string          `json:"title"`
	InstallmentIndex int             `json:"installmentIndex"`
	Installments     int             `json:"installments"`
	Amount           decimal.Decimal `json:"amount"`
	DueDate          time.Time       `json:"dueDate"`
	Status           DueStatus       `json:"status"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Reminder is a fire-once notification scheduled for a moment in time.
type Reminder struct {
	ID     string
	UserID string
	Title  string
	Body   string
	FireAt time.Time
	SentAt *time.Time
}

// PurchaseCommit is everything a purchase writes in one transaction.
// Increments are deltas applied with the store's atomic increment.
type PurchaseCommit struct {
	Item         *Item
	Increments   FieldValues
	Dues         []Due
	RecomputeNet bool
}
