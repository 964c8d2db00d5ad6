package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"therawking/internal/services"
)

// WebhookHandler receives asynchronous payment events from the gateway.
type WebhookHandler struct {
	service *services.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		service: service,
	}
}

// RegisterRoutes registers the webhook route with the Fiber app.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/stripe/webhook", h.HandleStripeWebhook)
}

// HandleStripeWebhook verifies and dispatches one webhook delivery. The raw
// body is passed through untouched; signature verification depends on the
// exact bytes the gateway signed.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	if err := h.service.HandleEvent(c.Body(), c.Get("Stripe-Signature")); err != nil {
		log.Printf("Error handling webhook event: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Webhook rejected",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"received": true})
}
