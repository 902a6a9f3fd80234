package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/internal/supplier"
	"github.com/washlane/inventory-service/internal/tenant"
	"github.com/washlane/inventory-service/pkg/logger"
)

type SupplierHandler struct {
	uc     supplier.UseCase
	logger logger.ZapLogger
}

func NewSupplierHandler(uc supplier.UseCase, log logger.ZapLogger) *SupplierHandler {
	return &SupplierHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	suppliers.POST("", h.CreateSupplier)
	suppliers.GET("", h.ListSuppliers)
	suppliers.GET("/:id", h.GetSupplier)
}

func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	var input supplier.CreateSupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.uc.CreateSupplier(c.Request.Context(), tenantID, &input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	s, err := h.uc.GetSupplier(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	suppliers, err := h.uc.ListSuppliers(c.Request.Context(), tenantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *SupplierHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, supplier.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("supplier handler error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
