// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records a mutating request made through the admin console.
type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"userId" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resourceType" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resourceId" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"newValues" gorm:"type:jsonb"`
	StatusCode   int        `json:"statusCode"`
	IPAddress    string     `json:"ipAddress" gorm:"size:45"`
	UserAgent    string     `json:"userAgent" gorm:"type:text"`
}

// InventoryStats backs the admin dashboard counters.
type InventoryStats struct {
	TotalProducts      int64 `json:"totalProducts"`
	InStockProducts    int64 `json:"inStockProducts"`
	OutOfStockProducts int64 `json:"outOfStockProducts"`
	FeaturedProducts   int64 `json:"featuredProducts"`
}
