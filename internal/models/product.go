// internal/models/product.go
package models

import (
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name          string          `json:"name" gorm:"size:255;not null"`
	Price         float64         `json:"price" gorm:"type:decimal(10,2);not null"`
	OriginalPrice *float64        `json:"originalPrice,omitempty" gorm:"type:decimal(10,2)"`
	Discount      string          `json:"discount,omitempty" gorm:"size:50"`
	Category      ProductCategory `json:"category" gorm:"type:varchar(20);not null;index"`
	Subcategory   string          `json:"subcategory,omitempty" gorm:"size:100;index"`
	Type          string          `json:"type,omitempty" gorm:"size:100"`
	Brand         string          `json:"brand" gorm:"size:100;default:'LUXE'"`
	Rating        float64         `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Reviews       int64           `json:"reviews" gorm:"default:0"`
	Colors        pq.StringArray  `json:"colors" gorm:"type:text[]"`
	Sizes         pq.StringArray  `json:"sizes" gorm:"type:text[]"`
	Images        pq.StringArray  `json:"images" gorm:"type:text[]"`
	Description   string          `json:"description,omitempty" gorm:"type:text"`
	Features      pq.StringArray  `json:"features" gorm:"type:text[]"`
	Tags          pq.StringArray  `json:"tags" gorm:"type:text[]"`
	InStock       bool            `json:"inStock" gorm:"not null;index"`
	StockCount    int             `json:"stockCount" gorm:"default:0"`
	Featured      pq.StringArray  `json:"featured" gorm:"type:text[]"`
}

// SyncStock re-derives the stored in-stock flag from the stock count.
func (p *Product) SyncStock() {
	p.InStock = p.StockCount > 0
}

// ApplyDecrement removes qty units, clamping at zero. The in-stock flag is
// only ever cleared here, never set.
func (p *Product) ApplyDecrement(qty int) {
	p.StockCount -= qty
	if p.StockCount < 0 {
		p.StockCount = 0
	}
	if p.StockCount == 0 {
		p.InStock = false
	}
}

func (c ProductCategory) Valid() bool {
	switch c {
	case ProductCategoryMen, ProductCategoryWomen, ProductCategoryAccessories:
		return true
	}
	return false
}
