package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/internal/item"
	"github.com/washlane/inventory-service/internal/item/dto"
	"github.com/washlane/inventory-service/internal/tenant"
	"github.com/washlane/inventory-service/pkg/logger"
)

type ItemHandler struct {
	uc     item.UseCase
	logger logger.ZapLogger
}

func NewItemHandler(uc item.UseCase, log logger.ZapLogger) *ItemHandler {
	return &ItemHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	items.POST("", h.CreateItem)
	items.GET("", h.ListItems)
	items.GET("/search", h.SearchItems)
	items.GET("/:id", h.GetItem)
	items.PUT("/:id", h.UpdateItem)
	items.POST("/:id/adjust", h.AdjustStock)
	items.GET("/:id/transactions", h.ListTransactions)
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	var input dto.CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	it, err := h.uc.CreateItem(c.Request.Context(), tenantID, &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	var input dto.UpdateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	it, err := h.uc.UpdateItem(c.Request.Context(), tenantID, c.Param("id"), &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	it, err := h.uc.GetItem(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	filters := &dto.ItemFilters{
		TenantID:   tenantID,
		SupplierID: c.Query("supplier_id"),
		Search:     c.Query("search"),
		LowStock:   c.Query("low_stock") == "true",
		ActiveOnly: c.Query("active") == "true",
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}
	if v := c.Query("auto_reorder"); v != "" {
		b := v == "true"
		filters.AutoReorder = &b
	}

	items, total, err := h.uc.ListItems(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *ItemHandler) SearchItems(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q parameter"})
		return
	}

	items, err := h.uc.SearchItems(c.Request.Context(), tenantID, q, queryInt(c, "size", 20))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ItemHandler) AdjustStock(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	var input dto.AdjustStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.TenantID = tenantID
	input.ItemID = c.Param("id")
	input.CreatedBy = c.GetHeader("X-User-ID")

	it, err := h.uc.AdjustStock(c.Request.Context(), &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *ItemHandler) ListTransactions(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	filters := &dto.TransactionFilters{
		TenantID:        tenantID,
		ItemID:          c.Param("id"),
		TransactionType: c.Query("type"),
		Page:            queryInt(c, "page", 1),
		PageSize:        queryInt(c, "page_size", 50),
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.EndDate = &t
		}
	}

	txns, total, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns, "total": total})
}

func (h *ItemHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, item.ErrSKUExists), errors.Is(err, item.ErrLockBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, item.ErrInvalidQuantity), errors.Is(err, item.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("item handler error", zap.Error(err))
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
