// internal/handlers/user.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxe-clothing/storefront/internal/i18n"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{"user": user})
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// PUT /api/users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req services.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), caller, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUserPasswordChanged),
	})
}

// GET /api/users/addresses
func (h *UserHandler) ListAddresses(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	addresses, err := h.userService.ListAddresses(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{"addresses": addresses})
}

// POST /api/users/addresses
func (h *UserHandler) AddAddress(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req services.AddressRequest
	if !bindJSON(c, &req) {
		return
	}

	address, err := h.userService.AddAddress(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusCreated, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyAddressAdded),
		"address": address,
	})
}

// PUT /api/users/addresses/:addressId
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "addressId", "Address")
	if !ok {
		return
	}

	var req services.UpdateAddressRequest
	if !bindJSON(c, &req) {
		return
	}

	address, err := h.userService.UpdateAddress(c.Request.Context(), caller, addressID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyAddressUpdated),
		"address": address,
	})
}

// DELETE /api/users/addresses/:addressId
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "addressId", "Address")
	if !ok {
		return
	}

	if err := h.userService.DeleteAddress(c.Request.Context(), caller, addressID); err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyAddressDeleted),
	})
}

// PUT /api/users/addresses/:addressId/default
func (h *UserHandler) SetDefaultAddress(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	addressID, ok := pathUUID(c, "addressId", "Address")
	if !ok {
		return
	}

	if err := h.userService.SetDefaultAddress(c.Request.Context(), caller, addressID); err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyAddressDefaultSet),
	})
}
