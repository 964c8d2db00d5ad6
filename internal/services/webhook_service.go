package services

import (
	"encoding/json"
	"log"
	"time"

	"therawking/internal/apperrors"
	"therawking/internal/models"
	"therawking/internal/payments"
	"therawking/internal/repositories"
)

// Gateway event types the reconciler acts on. Everything else is acknowledged
// without a state change.
const (
	eventCheckoutCompleted   = "checkout.session.completed"
	eventPaymentIntentFailed = "payment_intent.payment_failed"
)

// webhookEvent is the gateway's event envelope. For session events the object
// is the checkout session; for payment intent events the object is the intent
// itself, so its id is the intent id.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
		} `json:"object"`
	} `json:"data"`
}

// WebhookService reconciles order state from asynchronous gateway events.
type WebhookService struct {
	orderRepo repositories.OrderRepository
	secret    string
	tolerance time.Duration
}

// NewWebhookService creates a new WebhookService. An empty secret puts the
// service in a degraded mode where events are acknowledged unverified and
// unprocessed.
func NewWebhookService(orderRepo repositories.OrderRepository, secret string) *WebhookService {
	return &WebhookService{
		orderRepo: orderRepo,
		secret:    secret,
		tolerance: payments.DefaultSignatureTolerance,
	}
}

// HandleEvent verifies and dispatches one raw webhook delivery. A nil return
// means the event is acknowledged, whether or not any order matched; the
// gateway must not be told to retry just because no local order was found.
// Redelivery is safe: status transitions are conditional no-ops once an order
// reaches a terminal state.
func (s *WebhookService) HandleEvent(payload []byte, signatureHeader string) error {
	if s.secret == "" {
		log.Println("Warning: no webhook secret configured, acknowledging unverified event without processing")
		return nil
	}

	if err := payments.VerifySignature(payload, signatureHeader, s.secret, s.tolerance); err != nil {
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return apperrors.NewValidation("malformed webhook payload: %v", err)
	}

	switch event.Type {
	case eventCheckoutCompleted:
		sessionID := event.Data.Object.ID
		if sessionID == "" {
			return nil
		}
		affected, err := s.orderRepo.UpdateStatusBySession(sessionID, models.PaymentStatusPaid)
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Printf("%s: session %s matched no transitionable order", event.Type, sessionID)
		}
	case eventPaymentIntentFailed:
		intentID := event.Data.Object.ID
		if intentID == "" {
			return nil
		}
		affected, err := s.orderRepo.UpdateStatusByPaymentIntent(intentID, models.PaymentStatusFailed)
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Printf("%s: intent %s matched no transitionable order", event.Type, intentID)
		}
	default:
		// Unknown event types are acknowledged so the gateway can evolve
		// without breaking us.
	}
	return nil
}
