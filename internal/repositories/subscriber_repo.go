package repositories

import (
	"therawking/internal/models"
)

// SubscriberRepository defines the interface for newsletter signups.
type SubscriberRepository interface {
	// Upsert stores the subscriber, silently ignoring duplicate emails.
	Upsert(subscriber *models.Subscriber) error
}
