// internal/repository/product_repo.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxe-clothing/storefront/internal/database"
	"github.com/luxe-clothing/storefront/internal/models"
)

type ProductFilter struct {
	Category    models.ProductCategory
	Subcategory string
	Type        string
	Featured    string
	Search      string
	Limit       int
	Offset      int
}

// StockLevel is the state of a product right after a stock decrement.
type StockLevel struct {
	StockCount int
	InStock    bool
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	BulkUpdate(ctx context.Context, ids []uuid.UUID, apply func(p *models.Product) error) (int, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
	Stats(ctx context.Context) (*models.InventoryStats, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)

	// DecrementStock removes qty units in one statement, clamping at zero and
	// clearing the in-stock flag when nothing is left. It returns nil when the
	// product does not exist.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (*StockLevel, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Subcategory != "" {
		q = q.Where("subcategory = ?", f.Subcategory)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Featured != "" {
		q = q.Where("? = ANY(featured)", f.Featured)
	}
	if f.Search != "" {
		q = q.Where(`(name ILIKE @p OR description ILIKE @p OR brand ILIKE @p
OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE @p))`,
			map[string]any{"p": containsPattern(f.Search)})
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) BulkUpdate(ctx context.Context, ids []uuid.UUID, apply func(p *models.Product) error) (int, error) {
	updated := 0
	err := database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		for i := range products {
			if err := apply(&products[i]); err != nil {
				return err
			}
			if err := tx.Save(&products[i]).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func (r *productRepo) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Product{}, "id IN ?", ids)
	return tx.RowsAffected, tx.Error
}

func (r *productRepo) Stats(ctx context.Context) (*models.InventoryStats, error) {
	var stats models.InventoryStats
	err := r.db.WithContext(ctx).Raw(`
SELECT COUNT(*)                                                  AS total_products,
       COUNT(*) FILTER (WHERE in_stock)                          AS in_stock_products,
       COUNT(*) FILTER (WHERE NOT in_stock)                      AS out_of_stock_products,
       COUNT(*) FILTER (WHERE COALESCE(cardinality(featured), 0) > 0) AS featured_products
FROM products
`).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *productRepo) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("stock_count <= ?", threshold).
		Order("stock_count ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (*StockLevel, error) {
	var lvl StockLevel
	tx := r.db.WithContext(ctx).Raw(`
UPDATE products
SET stock_count = GREATEST(stock_count - @q, 0),
    in_stock    = CASE WHEN stock_count - @q <= 0 THEN false ELSE in_stock END,
    updated_at  = now()
WHERE id = @id
RETURNING stock_count, in_stock
`, map[string]any{
		"id": id,
		"q":  qty,
	}).Scan(&lvl)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return &lvl, nil
}
