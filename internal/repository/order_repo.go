// internal/repository/order_repo.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxe-clothing/storefront/internal/models"
)

type OrderRepo interface {
	// Create inserts the order with its items. A clash on the order number
	// returns ErrDuplicateOrderNumber and leaves nothing behind.
	Create(ctx context.Context, o *models.Order) error
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateProgress(ctx context.Context, o *models.Order) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	for i := range o.Items {
		o.Items[i].Position = i
	}
	err := r.db.WithContext(ctx).Create(o).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOrderNumber
	}
	return err
}

func (r *orderRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&o, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateProgress persists the status and timeline of o. Nothing else on an
// order changes after creation.
func (r *orderRepo) UpdateProgress(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"status":   o.Status,
			"timeline": o.Timeline,
		}).Error
}
