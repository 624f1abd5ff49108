package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
)

type ProductServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *repository.Repository
	service *ProductService
	admin   *AdminService
}

func (s *ProductServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = repository.NewMemory()
	s.service = NewProductService(s.repo.Products)
	s.admin = NewAdminService(s.repo)
}

func (s *ProductServiceTestSuite) create(name, category string, stock int) *models.Product {
	p, err := s.service.CreateProduct(s.ctx, &CreateProductRequest{
		Name:       name,
		Price:      floatPtr(49.5),
		Category:   category,
		StockCount: stock,
		Tags:       []string{"cotton"},
	})
	s.Require().NoError(err)
	return p
}

func (s *ProductServiceTestSuite) TestCreateProductDefaults() {
	p := s.create("Basic Cotton T-Shirt", "men", 0)

	s.Equal("LUXE", p.Brand)
	s.False(p.InStock)
	s.NotNil(p.Colors)
	s.NotEqual(uuid.Nil, p.ID)
}

func (s *ProductServiceTestSuite) TestCreateProductValidation() {
	tests := []struct {
		name string
		req  CreateProductRequest
	}{
		{"missing price", CreateProductRequest{Name: "Scarf", Category: "accessories"}},
		{"bad category", CreateProductRequest{Name: "Scarf", Price: floatPtr(10), Category: "kids"}},
		{"negative stock", CreateProductRequest{Name: "Scarf", Price: floatPtr(10), Category: "accessories", StockCount: -1}},
		{"rating too high", CreateProductRequest{Name: "Scarf", Price: floatPtr(10), Category: "accessories", Rating: 6}},
		{"blank name", CreateProductRequest{Name: "  ", Price: floatPtr(10), Category: "accessories"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateProduct(s.ctx, &tt.req)
			s.ErrorIs(err, ErrValidation)
		})
	}
}

func (s *ProductServiceTestSuite) TestUpdateProductKeepsStockFlag() {
	p := s.create("Silk Scarf", "accessories", 3)

	updated, err := s.service.UpdateProduct(s.ctx, p.ID, &UpdateProductRequest{StockCount: new(int)})
	s.Require().NoError(err)
	s.False(updated.InStock)

	ten := 10
	updated, err = s.service.UpdateProduct(s.ctx, p.ID, &UpdateProductRequest{StockCount: &ten})
	s.Require().NoError(err)
	s.True(updated.InStock)
	s.Equal("Silk Scarf", updated.Name)

	_, err = s.service.UpdateProduct(s.ctx, uuid.New(), &UpdateProductRequest{Name: strPtr("Ghost")})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ProductServiceTestSuite) TestListAndSearch() {
	s.create("Basic Cotton T-Shirt", "men", 5)
	s.create("Summer Dress", "women", 5)
	s.create("Leather Belt", "accessories", 5)

	all, total, err := s.service.ListProducts(s.ctx, ProductQuery{})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Len(all, 3)

	women, total, err := s.service.ListProducts(s.ctx, ProductQuery{Category: "women"})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("Summer Dress", women[0].Name)

	page, total, err := s.service.ListProducts(s.ctx, ProductQuery{Limit: 2, Skip: 2})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Len(page, 1)

	found, err := s.service.SearchProducts(s.ctx, SearchQuery{Q: "DRESS"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Summer Dress", found[0].Name)

	none, err := s.service.SearchProducts(s.ctx, SearchQuery{Q: "dress", Category: "men"})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	_, err = s.service.SearchProducts(s.ctx, SearchQuery{Q: "  "})
	s.ErrorIs(err, ErrValidation)
}

func (s *ProductServiceTestSuite) TestDeleteProduct() {
	p := s.create("Leather Belt", "accessories", 5)

	s.Require().NoError(s.service.DeleteProduct(s.ctx, p.ID))
	s.ErrorIs(s.service.DeleteProduct(s.ctx, p.ID), ErrNotFound)

	_, err := s.service.GetProduct(s.ctx, p.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ProductServiceTestSuite) TestBulkOperations() {
	a := s.create("Basic Cotton T-Shirt", "men", 5)
	b := s.create("Summer Dress", "women", 5)

	zero := 0
	updated, err := s.service.BulkUpdate(s.ctx, &BulkUpdateRequest{
		ProductIDs: []uuid.UUID{a.ID, b.ID, uuid.New()},
		Update:     &UpdateProductRequest{StockCount: &zero},
	})
	s.Require().NoError(err)
	s.Equal(2, updated)

	stats, err := s.admin.GetInventoryStats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, stats.OutOfStockProducts)
	s.EqualValues(0, stats.InStockProducts)

	_, err = s.service.BulkUpdate(s.ctx, &BulkUpdateRequest{ProductIDs: []uuid.UUID{a.ID}})
	s.ErrorIs(err, ErrValidation)

	deleted, err := s.service.BulkDelete(s.ctx, &BulkDeleteRequest{ProductIDs: []uuid.UUID{a.ID, uuid.New()}})
	s.Require().NoError(err)
	s.EqualValues(1, deleted)

	_, err = s.service.BulkDelete(s.ctx, &BulkDeleteRequest{})
	s.ErrorIs(err, ErrValidation)
}

func (s *ProductServiceTestSuite) TestSeedCatalogOnlyWhenEmpty() {
	seed := []models.Product{
		{Name: "Basic Cotton T-Shirt", Price: 25, Category: models.ProductCategoryMen, StockCount: 50},
		{Name: "Luxury Watch", Price: 299, Category: models.ProductCategoryAccessories},
	}

	n, err := s.service.SeedCatalog(s.ctx, seed)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.service.SeedCatalog(s.ctx, seed)
	s.Require().NoError(err)
	s.Zero(n)

	stats, err := s.admin.GetInventoryStats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, stats.TotalProducts)
	s.EqualValues(1, stats.InStockProducts)
}

func (s *ProductServiceTestSuite) TestLowStock() {
	s.create("Basic Cotton T-Shirt", "men", 50)
	s.create("Summer Dress", "women", 4)
	s.create("Leather Belt", "accessories", 1)

	products, threshold, err := s.admin.GetLowStock(s.ctx, LowStockQuery{})
	s.Require().NoError(err)
	s.Equal(10, threshold)
	s.Require().Len(products, 2)
	s.Equal("Leather Belt", products[0].Name)
	s.Equal("Summer Dress", products[1].Name)

	products, _, err = s.admin.GetLowStock(s.ctx, LowStockQuery{Threshold: 100})
	s.Require().NoError(err)
	s.Len(products, 3)
}

func (s *ProductServiceTestSuite) TestAuditLogs() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.repo.AuditLogs.Create(s.ctx, &models.AuditLog{
			Action:       "POST /api/admin/products",
			ResourceType: "products",
			StatusCode:   201 + i,
		}))
	}

	entries, err := s.admin.GetAuditLogs(s.ctx, AuditLogQuery{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(203, entries[0].StatusCode)

	entries, err = s.admin.GetAuditLogs(s.ctx, AuditLogQuery{})
	s.Require().NoError(err)
	s.Len(entries, 3)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
