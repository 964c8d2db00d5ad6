package repositories

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"therawking/internal/apperrors"
	"therawking/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns products matching the query, applying the same normalization
// rules as the GORM implementation.
func (r *MockProductRepository) List(query ProductQuery) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = query.Normalize()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if query.Category != "" && p.Tag != query.Category {
			continue
		}
		if query.Featured != nil && p.Featured != *query.Featured {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}

	switch query.Sort {
	case SortPriceAsc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortPriceDesc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	if query.Offset >= len(matched) {
		return []models.Product{}, nil
	}
	matched = matched[query.Offset:]
	if len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NewNotFound("product", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.products)), nil
}
