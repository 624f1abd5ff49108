// internal/services/product_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
)

const (
	defaultSearchLimit = 20
	maxListLimit       = 100
	defaultBrand       = "LUXE"
)

type ProductService struct {
	products repository.ProductRepo
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      string   `json:"discount,omitempty" validate:"max=50"`
	Category      string   `json:"category" validate:"required,product_category"`
	Subcategory   string   `json:"subcategory,omitempty" validate:"max=100"`
	Type          string   `json:"type,omitempty" validate:"max=100"`
	Brand         string   `json:"brand,omitempty" validate:"max=100"`
	Rating        float64  `json:"rating,omitempty" validate:"gte=0,lte=5"`
	Reviews       int64    `json:"reviews,omitempty" validate:"gte=0"`
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	Images        []string `json:"images,omitempty"`
	Description   string   `json:"description,omitempty"`
	Features      []string `json:"features,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	StockCount    int      `json:"stockCount,omitempty" validate:"gte=0"`
	Featured      []string `json:"featured,omitempty"`
}

// UpdateProductRequest patches a product. Nil fields are left alone; an
// empty list clears the stored list.
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      *string  `json:"discount,omitempty" validate:"omitempty,max=50"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,product_category"`
	Subcategory   *string  `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Type          *string  `json:"type,omitempty" validate:"omitempty,max=100"`
	Brand         *string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews       *int64   `json:"reviews,omitempty" validate:"omitempty,gte=0"`
	Colors        []string `json:"colors,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	Images        []string `json:"images,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Features      []string `json:"features,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	StockCount    *int     `json:"stockCount,omitempty" validate:"omitempty,gte=0"`
	Featured      []string `json:"featured,omitempty"`
}

type BulkUpdateRequest struct {
	ProductIDs []uuid.UUID           `json:"productIds" validate:"required,min=1"`
	Update     *UpdateProductRequest `json:"update" validate:"required"`
}

type BulkDeleteRequest struct {
	ProductIDs []uuid.UUID `json:"productIds" validate:"required,min=1"`
}

type ProductQuery struct {
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	Type        string `form:"type"`
	Featured    string `form:"featured"`
	Search      string `form:"search"`
	Limit       int    `form:"limit"`
	Skip        int    `form:"skip"`
}

type SearchQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

func NewProductService(products repository.ProductRepo) *ProductService {
	return &ProductService{products: products}
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// ListProducts returns the catalog newest first. A zero limit returns every
// match, as the storefront expects.
func (s *ProductService) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	filter := repository.ProductFilter{
		Category:    models.ProductCategory(q.Category),
		Subcategory: q.Subcategory,
		Type:        q.Type,
		Featured:    q.Featured,
		Search:      strings.TrimSpace(q.Search),
		Offset:      max(q.Skip, 0),
	}
	if q.Limit > 0 {
		filter.Limit = clampLimit(q.Limit, maxListLimit)
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return nonNilProducts(products), total, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, q SearchQuery) ([]models.Product, error) {
	term := strings.TrimSpace(q.Q)
	if term == "" {
		return nil, newValidationError("q", "Search query is required")
	}

	products, _, err := s.products.List(ctx, repository.ProductFilter{
		Category: models.ProductCategory(q.Category),
		Search:   term,
		Limit:    clampLimit(q.Limit, defaultSearchLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return nonNilProducts(products), nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product == nil {
		return nil, &NotFoundError{Resource: "Product"}
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	brand := strings.TrimSpace(req.Brand)
	if brand == "" {
		brand = defaultBrand
	}

	product := &models.Product{
		Name:          req.Name,
		Price:         *req.Price,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Category:      models.ProductCategory(req.Category),
		Subcategory:   req.Subcategory,
		Type:          req.Type,
		Brand:         brand,
		Rating:        req.Rating,
		Reviews:       req.Reviews,
		Colors:        stringArray(req.Colors),
		Sizes:         stringArray(req.Sizes),
		Images:        stringArray(req.Images),
		Description:   req.Description,
		Features:      stringArray(req.Features),
		Tags:          stringArray(req.Tags),
		StockCount:    req.StockCount,
		Featured:      stringArray(req.Featured),
	}
	product.SyncStock()

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id":  product.ID,
		"name":        product.Name,
		"stock_count": product.StockCount,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProductUpdate(product, req)

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return &NotFoundError{Resource: "Product"}
	}

	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}

// BulkUpdate applies one patch to every listed product that exists and
// reports how many were changed.
func (s *ProductService) BulkUpdate(ctx context.Context, req *BulkUpdateRequest) (int, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	updated, err := s.products.BulkUpdate(ctx, req.ProductIDs, func(p *models.Product) error {
		applyProductUpdate(p, req.Update)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update products: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"requested": len(req.ProductIDs),
		"updated":   updated,
	}).Info("Products bulk updated")

	return updated, nil
}

func (s *ProductService) BulkDelete(ctx context.Context, req *BulkDeleteRequest) (int64, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	deleted, err := s.products.BulkDelete(ctx, req.ProductIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk delete products: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"requested": len(req.ProductIDs),
		"deleted":   deleted,
	}).Info("Products bulk deleted")

	return deleted, nil
}

// SeedCatalog inserts products only into an empty catalog. It returns the
// number inserted.
func (s *ProductService) SeedCatalog(ctx context.Context, products []models.Product) (int, error) {
	_, total, err := s.products.List(ctx, repository.ProductFilter{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if total > 0 {
		logrus.WithField("products", total).Debug("Catalog already populated, seed skipped")
		return 0, nil
	}

	for i := range products {
		p := products[i]
		p.SyncStock()
		if err := s.products.Create(ctx, &p); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}

	logrus.WithField("products", len(products)).Info("Catalog seeded")
	return len(products), nil
}

func applyProductUpdate(p *models.Product, req *UpdateProductRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.Category != nil {
		p.Category = models.ProductCategory(*req.Category)
	}
	if req.Subcategory != nil {
		p.Subcategory = *req.Subcategory
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	if req.Reviews != nil {
		p.Reviews = *req.Reviews
	}
	if req.Colors != nil {
		p.Colors = stringArray(req.Colors)
	}
	if req.Sizes != nil {
		p.Sizes = stringArray(req.Sizes)
	}
	if req.Images != nil {
		p.Images = stringArray(req.Images)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Features != nil {
		p.Features = stringArray(req.Features)
	}
	if req.Tags != nil {
		p.Tags = stringArray(req.Tags)
	}
	if req.StockCount != nil {
		p.StockCount = *req.StockCount
	}
	if req.Featured != nil {
		p.Featured = stringArray(req.Featured)
	}
	p.SyncStock()
}

func stringArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}

func nonNilProducts(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
