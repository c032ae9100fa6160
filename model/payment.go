package model

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentFailed     PaymentStatus = "failed"
)

// allowedFrom lists the statuses a payment may move to a given status from.
// succeeded and failed are terminal and appear in no value set.
var allowedFrom = map[PaymentStatus][]PaymentStatus{
	PaymentProcessing: {PaymentPending},
	PaymentSucceeded:  {PaymentPending, PaymentProcessing},
	PaymentFailed:     {PaymentPending, PaymentProcessing},
}

// AllowedPredecessors returns the statuses from which a transition to target
// is legal. Used by the store to build the conditional update predicate.
func AllowedPredecessors(target PaymentStatus) []PaymentStatus {
	return allowedFrom[target]
}

func (s PaymentStatus) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentFailed
}

// CanTransition reports whether moving from s to target is legal.
func (s PaymentStatus) CanTransition(target PaymentStatus) bool {
	for _, from := range allowedFrom[target] {
		if s == from {
			return true
		}
	}
	return false
}

type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"-"`
	PaymentID   string        `gorm:"uniqueIndex;size:64" json:"payment_id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	ServiceType string        `json:"service_type"`
	Amount      float64       `json:"amount"` // major units of Currency
	Currency    string        `gorm:"size:10;default:'usd'" json:"currency"`
	Status      PaymentStatus `gorm:"size:20" json:"status"`
	UserID      *uint         `json:"user_id,omitempty"`

	StripeSessionID string `gorm:"uniqueIndex;size:255" json:"stripe_session_id,omitempty"`
	// not unique at the column level: the intent id is empty until Stripe
	// reports it, and Postgres treats empty strings as equal
	StripeIntentID string `gorm:"index;size:255" json:"stripe_payment_intent_id,omitempty"`
	// set only when the payment reaches a terminal status
	TransactionID string `gorm:"size:255" json:"transaction_id,omitempty"`

	Metadata datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
