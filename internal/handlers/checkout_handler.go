package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"therawking/internal/services"
)

// CheckoutHandler handles HTTP requests for checkout sessions and orders.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/create-checkout-session", h.HandleCreateCheckoutSession)
	router.Get("/order/by-session/:session_id", h.HandleGetOrderBySession)
}

// HandleCreateCheckoutSession prices the cart and returns the hosted checkout
// redirect URL.
func (h *CheckoutHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req services.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	url, err := h.service.CreateCheckout(c.Context(), req)
	if err != nil {
		log.Printf("Error creating checkout session: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not create checkout session",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"url": url})
}

// HandleGetOrderBySession retrieves the order created for a checkout session.
func (h *CheckoutHandler) HandleGetOrderBySession(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	order, err := h.service.GetOrderBySession(sessionID)
	if err != nil {
		log.Printf("Error getting order by session %s: %v", sessionID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}
