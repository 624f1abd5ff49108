// internal/services/user_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/models"
	"github.com/luxe-clothing/storefront/internal/repository"
)

type UserService struct {
	users repository.UserRepo
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AddressRequest struct {
	Title        string `json:"title" validate:"required,max=100"`
	FullName     string `json:"fullName" validate:"required,max=150"`
	Phone        string `json:"phone" validate:"required,max=50"`
	AddressLine1 string `json:"addressLine1" validate:"required,max=255"`
	AddressLine2 string `json:"addressLine2,omitempty" validate:"max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	ZipCode      string `json:"zipCode" validate:"required,max=20"`
	Country      string `json:"country" validate:"required,max=100"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}

// UpdateAddressRequest patches an address. Absent fields keep their value.
type UpdateAddressRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	FullName     *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=150"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	AddressLine1 *string `json:"addressLine1,omitempty" validate:"omitempty,min=1,max=255"`
	AddressLine2 *string `json:"addressLine2,omitempty" validate:"omitempty,max=255"`
	City         *string `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	ZipCode      *string `json:"zipCode,omitempty" validate:"omitempty,min=1,max=20"`
	Country      *string `json:"country,omitempty" validate:"omitempty,min=1,max=100"`
	IsDefault    *bool   `json:"isDefault,omitempty"`
}

func NewUserService(users repository.UserRepo) *UserService {
	return &UserService{users: users}
}

func (s *UserService) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "User"}
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, caller Identity) (*models.User, error) {
	return s.loadUser(ctx, caller.UserID)
}

func (s *UserService) UpdateProfile(ctx context.Context, caller Identity, req *UpdateProfileRequest) (*models.User, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, caller Identity, req *ChangePasswordRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, caller.UserID)
	if err != nil {
		return err
	}

	if user.CheckPassword(req.CurrentPassword) != nil {
		return newValidationError("currentPassword", "Current password is incorrect")
	}
	if user.CheckPassword(req.NewPassword) == nil {
		return newValidationError("newPassword", "New password must be different from the current password")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logrus.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

func (s *UserService) ListAddresses(ctx context.Context, caller Identity) ([]models.Address, error) {
	addresses, err := s.users.ListAddresses(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return addresses, nil
}

func (s *UserService) AddAddress(ctx context.Context, caller Identity, req *AddressRequest) (*models.Address, error) {
	trimAddressRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:       caller.UserID,
		Title:        req.Title,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      req.Country,
	}
	if err := s.users.CreateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	if req.IsDefault {
		if _, err := s.users.SetDefaultAddress(ctx, caller.UserID, address.ID); err != nil {
			return nil, fmt.Errorf("failed to set default address: %w", err)
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *UserService) UpdateAddress(ctx context.Context, caller Identity, addressID uuid.UUID, req *UpdateAddressRequest) (*models.Address, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	address, err := s.users.GetAddress(ctx, caller.UserID, addressID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if address == nil {
		return nil, &NotFoundError{Resource: "Address"}
	}

	patch := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	patch(&address.Title, req.Title)
	patch(&address.FullName, req.FullName)
	patch(&address.Phone, req.Phone)
	patch(&address.AddressLine1, req.AddressLine1)
	patch(&address.AddressLine2, req.AddressLine2)
	patch(&address.City, req.City)
	patch(&address.State, req.State)
	patch(&address.ZipCode, req.ZipCode)
	patch(&address.Country, req.Country)

	makeDefault := req.IsDefault != nil && *req.IsDefault
	if req.IsDefault != nil && !*req.IsDefault {
		address.IsDefault = false
	}

	if err := s.users.UpdateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	if makeDefault {
		if _, err := s.users.SetDefaultAddress(ctx, caller.UserID, address.ID); err != nil {
			return nil, fmt.Errorf("failed to set default address: %w", err)
		}
		address.IsDefault = true
	}

	return address, nil
}

func (s *UserService) DeleteAddress(ctx context.Context, caller Identity, addressID uuid.UUID) error {
	deleted, err := s.users.DeleteAddress(ctx, caller.UserID, addressID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if !deleted {
		return &NotFoundError{Resource: "Address"}
	}
	return nil
}

func (s *UserService) SetDefaultAddress(ctx context.Context, caller Identity, addressID uuid.UUID) error {
	found, err := s.users.SetDefaultAddress(ctx, caller.UserID, addressID)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if !found {
		return &NotFoundError{Resource: "Address"}
	}
	return nil
}

func trimAddressRequest(req *AddressRequest) {
	for _, f := range []*string{
		&req.Title, &req.FullName, &req.Phone, &req.AddressLine1, &req.AddressLine2,
		&req.City, &req.State, &req.ZipCode, &req.Country,
	} {
		*f = strings.TrimSpace(*f)
	}
}
