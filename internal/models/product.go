package models

import "time"

// Product represents a catalog product. Price is the display price in major
// currency units; the checkout flow converts it to minor units exactly once.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Price       float64   `json:"price" validate:"gte=0"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	Images      []string  `json:"images" gorm:"serializer:json"`
	Sizes       []string  `json:"sizes" gorm:"serializer:json"`
	InStock     bool      `json:"in_stock"`
	Featured    bool      `json:"featured"`
	Color       string    `json:"color,omitempty"`
	Tag         string    `json:"tag,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PrimaryImage returns the first image URL, or "" if the product has none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
