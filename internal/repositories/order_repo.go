package repositories

import (
	"therawking/internal/models"
)

// OrderRepository defines the interface for the order ledger. Status updates
// return the number of orders affected: zero is a valid outcome (unknown
// session/intent, or a terminal status that the transition rules refuse to
// change), never an error.
type OrderRepository interface {
	Insert(order *models.Order) error
	FindBySession(sessionID string) (*models.Order, error)
	UpdateStatusBySession(sessionID string, status models.PaymentStatus) (int64, error)
	UpdateStatusByPaymentIntent(intentID string, status models.PaymentStatus) (int64, error)
}
