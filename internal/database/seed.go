package database

import (
	"github.com/lib/pq"

	"github.com/luxe-clothing/storefront/internal/models"
)

func price(v float64) *float64 { return &v }

// CatalogSeed returns the starter catalog loaded into an empty store.
func CatalogSeed() []models.Product {
	return []models.Product{
		{
			Name:          "Basic Cotton T-Shirt",
			Price:         25,
			OriginalPrice: price(35),
			Discount:      "29% off",
			Category:      models.ProductCategoryMen,
			Subcategory:   "clothing",
			Type:          "t-shirts",
			Brand:         "LUXE",
			Rating:        4.3,
			Reviews:       127,
			Colors:        pq.StringArray{"Black", "White", "Gray"},
			Sizes:         pq.StringArray{"S", "M", "L", "XL", "XXL"},
			Images:        pq.StringArray{"/images/men/tshirts/basic-tee-1.jpg"},
			Description:   "Classic cotton t-shirt perfect for everyday wear. Soft, comfortable, and durable.",
			Features:      pq.StringArray{"100% Cotton", "Machine Washable", "Classic Fit"},
			Tags:          pq.StringArray{"basic", "cotton", "casual"},
			InStock:       true,
			StockCount:    45,
			Featured:      pq.StringArray{"men"},
		},
		{
			Name:          "Elegant Summer Dress",
			Price:         85,
			OriginalPrice: price(120),
			Discount:      "29% off",
			Category:      models.ProductCategoryWomen,
			Subcategory:   "clothing",
			Type:          "dresses",
			Brand:         "LUXE",
			Rating:        4.8,
			Reviews:       94,
			Colors:        pq.StringArray{"Floral", "Solid Blue", "Black"},
			Sizes:         pq.StringArray{"XS", "S", "M", "L", "XL"},
			Images:        pq.StringArray{"/images/women/dresses/summer-dress-1.jpg"},
			Description:   "Beautiful summer dress perfect for warm weather occasions.",
			Features:      pq.StringArray{"Lightweight Fabric", "Flowy Design", "Comfortable Fit"},
			Tags:          pq.StringArray{"dress", "summer", "elegant"},
			InStock:       true,
			StockCount:    27,
			Featured:      pq.StringArray{"women", "homepage"},
		},
		{
			Name:          "Luxury Watch",
			Price:         299,
			OriginalPrice: price(450),
			Discount:      "34% off",
			Category:      models.ProductCategoryAccessories,
			Subcategory:   "jewelry",
			Type:          "watches",
			Brand:         "LUXE",
			Rating:        4.9,
			Reviews:       67,
			Colors:        pq.StringArray{"Silver", "Gold", "Black"},
			Sizes:         pq.StringArray{"Adjustable"},
			Images:        pq.StringArray{"/images/accessories/watches/luxury-watch-1.jpg"},
			Description:   "Sophisticated luxury watch combining classic design with modern functionality.",
			Features:      pq.StringArray{"Swiss Movement", "Water Resistant", "Leather Strap"},
			Tags:          pq.StringArray{"watch", "luxury", "timepiece"},
			InStock:       true,
			StockCount:    15,
			Featured:      pq.StringArray{"homepage", "accessories"},
		},
	}
}
