// internal/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxe-clothing/storefront/internal/i18n"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusCreated, gin.H{
		"order": gin.H{
			"id":                order.ID,
			"orderNumber":       order.OrderNumber,
			"totalAmount":       order.TotalAmount,
			"status":            order.Status,
			"estimatedDelivery": order.EstimatedDelivery,
			"items":             order.Items,
		},
	})
}

// GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{"orders": orders})
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id", "Order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), caller, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"order": gin.H{
			"id":                order.ID,
			"orderNumber":       order.OrderNumber,
			"totalAmount":       order.TotalAmount,
			"subtotal":          order.Subtotal,
			"shipping":          order.Shipping,
			"status":            order.Status,
			"paymentIntentId":   order.PaymentIntentID,
			"paymentStatus":     order.PaymentStatus,
			"createdAt":         order.CreatedAt,
			"estimatedDelivery": order.EstimatedDelivery,
			"items":             order.Items,
			"orderTimeline":     order.Timeline,
			"shippingAddress":   order.ShippingAddress,
		},
	})
}

// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id", "Order")
	if !ok {
		return
	}

	var req services.UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	progress, err := h.orderService.UpdateStatus(c.Request.Context(), caller, orderID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message":       i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderStatusUpdated),
		"status":        progress.Status,
		"orderTimeline": progress.Timeline,
	})
}

// POST /api/orders/:id/simulate-progress
func (h *OrderHandler) SimulateProgress(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathUUID(c, "id", "Order")
	if !ok {
		return
	}

	progress, err := h.orderService.SimulateProgress(c.Request.Context(), caller, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.FlatResponse(c, http.StatusOK, gin.H{
		"message":       i18n.T(utils.GetLangFromContext(c), i18n.KeyOrderStatusProgressed),
		"status":        progress.Status,
		"orderTimeline": progress.Timeline,
	})
}
