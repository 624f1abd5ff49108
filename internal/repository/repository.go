// internal/repository/repository.go
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrDuplicateEmail       = errors.New("email already registered")
)

type Repository struct {
	DB        *gorm.DB
	Products  ProductRepo
	Orders    OrderRepo
	Users     UserRepo
	AuditLogs AuditLogRepo
}

func New(db *gorm.DB) *Repository {
	return &Repository{
		DB:        db,
		Products:  NewProductRepo(db),
		Orders:    NewOrderRepo(db),
		Users:     NewUserRepo(db),
		AuditLogs: NewAuditLogRepo(db),
	}
}

// NewMemory returns a repository set backed by process memory. DB is nil.
func NewMemory() *Repository {
	s := newMemoryStore()
	return &Repository{
		Products:  &memoryProductRepo{s: s},
		Orders:    &memoryOrderRepo{s: s},
		Users:     &memoryUserRepo{s: s},
		AuditLogs: &memoryAuditLogRepo{s: s},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
