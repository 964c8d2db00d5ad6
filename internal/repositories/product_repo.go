package repositories

import (
	"therawking/internal/models"
)

// ProductSort enumerates the allowed sort orders for product listings.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

const (
	defaultLimit = 24
	maxLimit     = 100
)

// ProductQuery is a typed query for product listings. Only the enumerated
// filters and sort keys below can reach the store; arbitrary filter maps are
// deliberately not supported.
type ProductQuery struct {
	Category string      // matches the product tag
	Featured *bool       // nil means no filter
	Search   string      // substring match on title/description
	Sort     ProductSort // defaults to newest
	Limit    int         // clamped to [1,100], defaults to 24
	Offset   int         // negative values are treated as 0
}

// Normalize clamps paging values and fills in defaults.
func (q ProductQuery) Normalize() ProductQuery {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	switch q.Sort {
	case SortPriceAsc, SortPriceDesc, SortNewest:
	default:
		q.Sort = SortNewest
	}
	return q
}

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	List(query ProductQuery) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Count() (int64, error)
}
