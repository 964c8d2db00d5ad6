package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"therawking/internal/apperrors"
	"therawking/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products matching the query. The query is normalized first,
// so paging limits are always within bounds regardless of caller input.
func (r *GORMProductRepository) List(query ProductQuery) ([]models.Product, error) {
	query = query.Normalize()

	tx := r.db.Model(&models.Product{})
	if query.Category != "" {
		tx = tx.Where("tag = ?", query.Category)
	}
	if query.Featured != nil {
		tx = tx.Where("featured = ?", *query.Featured)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		tx = tx.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	switch query.Sort {
	case SortPriceAsc:
		tx = tx.Order("price ASC")
	case SortPriceDesc:
		tx = tx.Order("price DESC")
	default:
		tx = tx.Order("created_at DESC")
	}

	var products []models.Product
	if err := tx.Limit(query.Limit).Offset(query.Offset).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: list products: %v", apperrors.ErrStorageUnavailable, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("%w: get product %s: %v", apperrors.ErrStorageUnavailable, id, err)
	}
	return &product, nil
}

// Create stores a new product, generating an ID if none is set.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("%w: create product: %v", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// Count returns the number of products in the catalog.
func (r *GORMProductRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count products: %v", apperrors.ErrStorageUnavailable, err)
	}
	return n, nil
}
