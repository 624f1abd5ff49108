// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/luxe-clothing/storefront/internal/i18n"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

type AdminHandler struct {
	adminService   *services.AdminService
	productService *services.ProductService
}

func NewAdminHandler(adminService *services.AdminService, productService *services.ProductService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		productService: productService,
	}
}

// GET /api/admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	var query services.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, &services.ValidationError{Field: "query", Message: err.Error()})
		return
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id", "Product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := pathUUID(c, "id", "Product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// PUT /api/admin/products/bulk
func (h *AdminHandler) BulkUpdateProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BulkUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.productService.BulkUpdate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyProductBulkUpdated, updated),
		"modifiedCount": updated,
	})
}

// DELETE /api/admin/products/bulk
func (h *AdminHandler) BulkDeleteProducts(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.BulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	deleted, err := h.productService.BulkDelete(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyProductBulkDeleted, deleted),
		"deletedCount": deleted,
	})
}

// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetInventoryStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /api/admin/inventory/low-stock
func (h *AdminHandler) GetLowStock(c *gin.Context) {
	var query services.LowStockQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, &services.ValidationError{Field: "threshold", Message: err.Error()})
		return
	}

	products, threshold, err := h.adminService.GetLowStock(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, products, gin.H{
		"threshold": threshold,
		"count":     len(products),
	})
}

// GET /api/admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	var query services.AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, &services.ValidationError{Field: "limit", Message: err.Error()})
		return
	}

	entries, err := h.adminService.GetAuditLogs(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, entries)
}
