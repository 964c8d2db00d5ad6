package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"therawking/internal/apperrors"
	"therawking/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Insert stores a new order with its item snapshots.
func (r *GORMOrderRepository) Insert(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("%w: insert order: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// FindBySession retrieves the order created for the given checkout session.
func (r *GORMOrderRepository) FindBySession(sessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "stripe_session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", sessionID)
		}
		return nil, fmt.Errorf("%w: find order by session %s: %v", apperrors.ErrStorageUnavailable, sessionID, err)
	}
	return &order, nil
}

// UpdateStatusBySession applies a status transition to the order holding the
// given checkout session id.
func (r *GORMOrderRepository) UpdateStatusBySession(sessionID string, status models.PaymentStatus) (int64, error) {
	return r.updateStatus("stripe_session_id", sessionID, status)
}

// UpdateStatusByPaymentIntent applies a status transition to every order
// referencing the given payment intent. Normally 1:1, but the update is
// deliberately unbounded to cover multi-order intents.
func (r *GORMOrderRepository) UpdateStatusByPaymentIntent(intentID string, status models.PaymentStatus) (int64, error) {
	return r.updateStatus("stripe_payment_intent_id", intentID, status)
}

// updateStatus runs a single conditional UPDATE so the transition rules hold
// under concurrent webhook deliveries without a read-modify-write cycle. Only
// rows still pending (or already at the target status, a no-op refresh) match;
// a conflicting terminal transition therefore affects zero rows.
func (r *GORMOrderRepository) updateStatus(column, value string, status models.PaymentStatus) (int64, error) {
	res := r.db.Model(&models.Order{}).
		Where(column+" = ? AND payment_status IN ?", value, []models.PaymentStatus{models.PaymentStatusPending, status}).
		Update("payment_status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: update order status: %v", apperrors.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}
