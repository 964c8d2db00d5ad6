package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"therawking/internal/apperrors"
	"therawking/internal/models"
)

// GORMSubscriberRepository is a GORM implementation of SubscriberRepository.
type GORMSubscriberRepository struct {
	db *gorm.DB
}

// NewGORMSubscriberRepository creates a new instance of GORMSubscriberRepository.
func NewGORMSubscriberRepository(db *gorm.DB) *GORMSubscriberRepository {
	return &GORMSubscriberRepository{
		db: db,
	}
}

// Upsert stores a subscriber; a duplicate email is a silent no-op.
func (r *GORMSubscriberRepository) Upsert(subscriber *models.Subscriber) error {
	if subscriber.ID == "" {
		subscriber.ID = uuid.New().String()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(subscriber).Error
	if err != nil {
		return fmt.Errorf("%w: upsert subscriber: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}
