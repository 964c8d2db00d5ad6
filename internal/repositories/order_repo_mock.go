package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"therawking/internal/apperrors"
	"therawking/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// enforces the same transition rules as the GORM implementation so tests
// exercise the real state machine.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.Mutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Insert adds a new order.
func (r *MockOrderRepository) Insert(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// FindBySession returns the order holding the given session id.
func (r *MockOrderRepository) FindBySession(sessionID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.StripeSessionID == sessionID {
			o := order
			return &o, nil
		}
	}
	return nil, apperrors.NewNotFound("order", sessionID)
}

// UpdateStatusBySession transitions the order with the given session id.
func (r *MockOrderRepository) UpdateStatusBySession(sessionID string, status models.PaymentStatus) (int64, error) {
	return r.updateWhere(func(o models.Order) bool { return o.StripeSessionID == sessionID }, status)
}

// UpdateStatusByPaymentIntent transitions all orders referencing the intent.
func (r *MockOrderRepository) UpdateStatusByPaymentIntent(intentID string, status models.PaymentStatus) (int64, error) {
	return r.updateWhere(func(o models.Order) bool { return o.StripePaymentIntentID == intentID }, status)
}

func (r *MockOrderRepository) updateWhere(match func(models.Order) bool, status models.PaymentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for id, order := range r.orders {
		if !match(order) {
			continue
		}
		if !models.CanTransition(order.PaymentStatus, status) {
			continue
		}
		order.PaymentStatus = status
		order.UpdatedAt = time.Now()
		r.orders[id] = order
		affected++
	}
	return affected, nil
}
