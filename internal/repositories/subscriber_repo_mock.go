package repositories

import (
	"sync"

	"github.com/google/uuid"

	"therawking/internal/models"
)

// MockSubscriberRepository is an in-memory implementation of SubscriberRepository.
type MockSubscriberRepository struct {
	byEmail map[string]models.Subscriber
	mu      sync.Mutex
}

// NewMockSubscriberRepository creates a new instance of MockSubscriberRepository.
func NewMockSubscriberRepository() *MockSubscriberRepository {
	return &MockSubscriberRepository{
		byEmail: make(map[string]models.Subscriber),
	}
}

// Upsert stores the subscriber unless the email is already present.
func (r *MockSubscriberRepository) Upsert(subscriber *models.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[subscriber.Email]; ok {
		return nil
	}
	if subscriber.ID == "" {
		subscriber.ID = uuid.New().String()
	}
	r.byEmail[subscriber.Email] = *subscriber
	return nil
}

// Count returns the number of stored subscribers.
func (r *MockSubscriberRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byEmail)
}
