// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
)

const (
	defaultLowStockThreshold = 10
	defaultAuditLogLimit     = 50
	maxAuditLogLimit         = 200
)

// AdminService serves the read-only side of the admin console. Product
// mutations go through ProductService.
type AdminService struct {
	products repository.ProductRepo
	audit    repository.AuditLogRepo
}

type LowStockQuery struct {
	Threshold int `form:"threshold"`
}

type AuditLogQuery struct {
	Limit int `form:"limit"`
}

func NewAdminService(repo *repository.Repository) *AdminService {
	return &AdminService{
		products: repo.Products,
		audit:    repo.AuditLogs,
	}
}

func (s *AdminService) GetInventoryStats(ctx context.Context) (*models.InventoryStats, error) {
	stats, err := s.products.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory stats: %w", err)
	}
	return stats, nil
}

// GetLowStock lists products at or below the threshold, lowest stock first.
func (s *AdminService) GetLowStock(ctx context.Context, q LowStockQuery) ([]models.Product, int, error) {
	threshold := q.Threshold
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}

	products, err := s.products.LowStock(ctx, threshold)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get low stock products: %w", err)
	}
	return nonNilProducts(products), threshold, nil
}

func (s *AdminService) GetAuditLogs(ctx context.Context, q AuditLogQuery) ([]models.AuditLog, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultAuditLogLimit
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	entries, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	return entries, nil
}
