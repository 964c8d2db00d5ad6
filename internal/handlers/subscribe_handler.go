package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"therawking/internal/services"
)

// SubscribeHandler handles newsletter signup requests.
type SubscribeHandler struct {
	service *services.SubscriberService
}

// NewSubscribeHandler creates a new SubscribeHandler.
func NewSubscribeHandler(service *services.SubscriberService) *SubscribeHandler {
	return &SubscribeHandler{
		service: service,
	}
}

// RegisterRoutes registers the subscribe route with the Fiber app.
func (h *SubscribeHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/subscribe", h.HandleSubscribe)
}

// HandleSubscribe stores a newsletter signup; duplicates are fine.
func (h *SubscribeHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing subscribe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.Subscribe(req.Email); err != nil {
		log.Printf("Error subscribing %s: %v", req.Email, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not subscribe",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}
