package services

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"therawking/internal/apperrors"
	"therawking/internal/models"
	"therawking/internal/payments"
	"therawking/internal/repositories"
)

// EventPublisher publishes JSON events to a named queue. Publishing is
// best-effort everywhere it is used; callers log failures and carry on.
type EventPublisher interface {
	PublishJSON(queue string, payload interface{}) error
}

// Queue names used by the checkout flow.
const (
	QueueOrderEvents    = "order_events"
	QueueReconciliation = "payment_reconciliation"
)

// CheckoutItemRequest is one cart line of a checkout request.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Size      string `json:"size,omitempty"`
}

// CreateCheckoutRequest is the body of a create-checkout-session call.
type CreateCheckoutRequest struct {
	Email string                `json:"email" validate:"omitempty,email"`
	Items []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CheckoutService prices carts against the catalog, creates hosted checkout
// sessions and persists pending order snapshots.
type CheckoutService struct {
	orderRepo      repositories.OrderRepository
	productRepo    repositories.ProductRepository
	gateway        payments.Gateway
	publisher      EventPublisher
	frontendOrigin string
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil; all
// event publication is then skipped.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	gateway payments.Gateway,
	publisher EventPublisher,
	frontendOrigin string,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		gateway:        gateway,
		publisher:      publisher,
		frontendOrigin: frontendOrigin,
	}
}

// MinorUnits converts a major-unit price to minor currency units (cents),
// rounding half up. The same value is sent to the gateway and stored in the
// order snapshot, so the two can never disagree.
func MinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateCheckout validates the cart, prices every line from the current
// catalog (client-sent prices are never trusted), requests a hosted session
// and persists a pending order snapshot. The session URL is returned even if
// order persistence fails: the session already exists at the provider, so the
// failure is logged and published as a reconciliation audit event instead of
// blocking the customer.
func (s *CheckoutService) CreateCheckout(ctx context.Context, req CreateCheckoutRequest) (string, error) {
	if len(req.Items) == 0 {
		return "", apperrors.NewValidation("cart must contain at least one item")
	}

	lineItems := make([]payments.LineItem, 0, len(req.Items))
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	currency := "usd"

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return "", apperrors.NewValidation("quantity must be at least 1 for product %s", item.ProductID)
		}

		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return "", err
		}
		if product.Currency != "" {
			currency = product.Currency
		}

		lineItems = append(lineItems, payments.LineItem{
			Currency:   currency,
			Name:       product.Title,
			ImageURL:   product.PrimaryImage(),
			UnitAmount: MinorUnits(product.Price),
			Quantity:   int64(item.Quantity),
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.SessionParams{
		LineItems:     lineItems,
		SuccessURL:    s.frontendOrigin + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendOrigin + "/checkout/cancel",
		CustomerEmail: req.Email,
		Metadata:      map[string]string{"brand": "TheRawKing"},
	})
	if err != nil {
		return "", err
	}

	order := &models.Order{
		Email:                 req.Email,
		Items:                 orderItems,
		Total:                 total.InexactFloat64(),
		Currency:              currency,
		PaymentStatus:         models.PaymentStatusPending,
		StripeSessionID:       session.ID,
		StripePaymentIntentID: session.PaymentIntentID,
	}

	if err := s.orderRepo.Insert(order); err != nil {
		// The customer still gets the redirect URL; the session exists at the
		// provider and must be reconciled later from the audit queue.
		log.Printf("Warning: failed to persist order for session %s: %v", session.ID, err)
		s.publish(QueueReconciliation, map[string]interface{}{
			"event":      "checkout.session.dangling",
			"session_id": session.ID,
			"email":      req.Email,
			"total":      order.Total,
			"currency":   order.Currency,
			"reason":     err.Error(),
		})
		return session.URL, nil
	}

	s.publish(QueueOrderEvents, map[string]interface{}{
		"event":      "order.created",
		"order_id":   order.ID,
		"session_id": order.StripeSessionID,
		"total":      order.Total,
		"currency":   order.Currency,
		"status":     order.PaymentStatus,
	})

	return session.URL, nil
}

func (s *CheckoutService) publish(queue string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(queue, payload); err != nil {
		log.Printf("Warning: failed to publish event to %s: %v", queue, err)
	}
}

// GetOrderBySession returns the order created for a checkout session.
func (s *CheckoutService) GetOrderBySession(sessionID string) (*models.Order, error) {
	return s.orderRepo.FindBySession(sessionID)
}
