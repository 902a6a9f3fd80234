package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/internal/purchaseorder"
	"github.com/washlane/inventory-service/internal/purchaseorder/dto"
	"github.com/washlane/inventory-service/internal/tenant"
	"github.com/washlane/inventory-service/pkg/logger"
)

type PurchaseOrderHandler struct {
	uc     purchaseorder.UseCase
	logger logger.ZapLogger
}

func NewPurchaseOrderHandler(uc purchaseorder.UseCase, log logger.ZapLogger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PUT("/:id/status", h.UpdateStatus)
}

func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	var input dto.CreatePOInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	po, err := h.uc.CreateOrder(c.Request.Context(), tenantID, &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	po, err := h.uc.GetOrder(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *PurchaseOrderHandler) ListOrders(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	filters := &dto.POFilters{
		TenantID:   tenantID,
		SupplierID: c.Query("supplier_id"),
		Status:     c.Query("status"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}
	if v := c.Query("auto_generated"); v != "" {
		b := v == "true"
		filters.AutoGenerated = &b
	}

	orders, total, err := h.uc.ListOrders(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase_orders": orders, "total": total})
}

func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	var input dto.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	po, err := h.uc.UpdateStatus(c.Request.Context(), tenantID, c.Param("id"), input.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *PurchaseOrderHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, purchaseorder.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, purchaseorder.ErrInvalidTransition), errors.Is(err, purchaseorder.ErrDuplicateOutstandingLine):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("purchase order handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
