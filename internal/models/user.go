// internal/models/user.go
package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

type User struct {
	BaseModel
	Name         string    `json:"name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);default:'user'"`
	Avatar       string    `json:"avatar,omitempty" gorm:"size:500"`
	Phone        string    `json:"phone,omitempty" gorm:"size:50"`
	Addresses    []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type Address struct {
	BaseModel
	UserID       uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	Title        string    `json:"title" gorm:"size:100;not null"`
	FullName     string    `json:"fullName" gorm:"size:150;not null"`
	Phone        string    `json:"phone" gorm:"size:50;not null"`
	AddressLine1 string    `json:"addressLine1" gorm:"size:255;not null"`
	AddressLine2 string    `json:"addressLine2" gorm:"size:255"`
	City         string    `json:"city" gorm:"size:100;not null"`
	State        string    `json:"state" gorm:"size:100;not null"`
	ZipCode      string    `json:"zipCode" gorm:"size:20;not null"`
	Country      string    `json:"country" gorm:"size:100;not null"`
	IsDefault    bool      `json:"isDefault" gorm:"default:false"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
