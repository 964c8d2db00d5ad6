package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"therawking/internal/repositories"
	"therawking/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
}

// HandleListProducts lists products with filtering, sorting and pagination.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	query := repositories.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     repositories.ProductSort(c.Query("sort")),
		Limit:    c.QueryInt("limit"),
		Offset:   c.QueryInt("offset"),
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "featured must be a boolean",
			})
		}
		query.Featured = &featured
	}

	products, err := h.service.ListProducts(query)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return c.Status(statusFromError(err)).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}
