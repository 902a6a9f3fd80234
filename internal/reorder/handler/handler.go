package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/washlane/inventory-service/internal/reorder"
	"github.com/washlane/inventory-service/internal/tenant"
	"github.com/washlane/inventory-service/pkg/logger"
)

type ReorderHandler struct {
	uc     reorder.UseCase
	logger logger.ZapLogger
}

func NewReorderHandler(uc reorder.UseCase, log logger.ZapLogger) *ReorderHandler {
	return &ReorderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReorderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	inv.POST("/auto-reorder", h.AutoReorder)
	inv.POST("/update-usage-rates", h.UpdateUsageRates)
	inv.GET("/reorder-alerts", h.ReorderAlerts)
}

func (h *ReorderHandler) AutoReorder(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	result, err := h.uc.RunAutoReorder(c.Request.Context(), tenantID)
	if err != nil {
		if errors.Is(err, reorder.ErrPassInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("auto-reorder pass failed", zap.String("tenant_id", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReorderHandler) UpdateUsageRates(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	updated, err := h.uc.UpdateUsageRates(c.Request.Context(), tenantID, c.Query("item_id"))
	if err != nil {
		h.logger.Error("usage rate update failed", zap.String("tenant_id", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("usage rates updated for %d items", updated),
		"updated_count": updated,
	})
}

func (h *ReorderHandler) ReorderAlerts(c *gin.Context) {
	tenantID := tenant.FromContext(c.Request.Context())

	alerts, err := h.uc.ReorderAlerts(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Error("reorder alerts failed", zap.String("tenant_id", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
