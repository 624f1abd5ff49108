// internal/repository/audit_repo.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/luxe-clothing/storefront/internal/models"
)

type AuditLogRepo interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepo(db *gorm.DB) AuditLogRepo { return &auditLogRepo{db: db} }

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
