package models

import "time"

// PaymentStatus is the payment state of an order. Transitions are driven only
// by gateway webhooks after creation: pending -> paid, pending -> failed.
// Re-applying a terminal status is a no-op so duplicate webhook deliveries are
// safe; a terminal status never changes to a different terminal status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Terminal reports whether the status is final.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed
}

// CanTransition reports whether an order in status `from` may be set to `to`.
// Identity transitions are allowed (idempotent redelivery), conflicting
// terminal transitions are not.
func CanTransition(from, to PaymentStatus) bool {
	if from == to {
		return true
	}
	return from == PaymentStatusPending && to.Terminal()
}

// OrderItem is a line of an order. Title and price are snapshotted from the
// product at order-creation time and never updated, so later catalog changes
// do not alter historical orders.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
	Size      string  `json:"size,omitempty"`
}

// Order represents a customer order created alongside a hosted checkout
// session. StripeSessionID is assigned exactly once at creation;
// StripePaymentIntentID may be absent until reconciliation fills it in.
type Order struct {
	ID                    string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email                 string        `json:"email"`
	Items                 []OrderItem   `json:"items" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Total                 float64       `json:"total"`
	Currency              string        `json:"currency"`
	PaymentStatus         PaymentStatus `json:"payment_status" gorm:"type:varchar(16);index"`
	StripeSessionID       string        `json:"stripe_session_id" gorm:"uniqueIndex;type:varchar(255)"`
	StripePaymentIntentID string        `json:"stripe_payment_intent_id,omitempty" gorm:"index;type:varchar(255)"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}
