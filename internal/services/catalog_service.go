package services

import (
	"therawking/internal/models"
	"therawking/internal/repositories"
)

// CatalogService handles business logic related to the product catalog.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListProducts retrieves products matching the query.
func (s *CatalogService) ListProducts(query repositories.ProductQuery) ([]models.Product, error) {
	return s.repo.List(query)
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct stores a new product. Used by catalog seeding.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// CountProducts returns the number of products in the catalog.
func (s *CatalogService) CountProducts() (int64, error) {
	return s.repo.Count()
}
