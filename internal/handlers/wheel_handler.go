package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spinmate/wheel-backend/internal/middleware"
	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/services"
)

// WheelHandler handles wheel configuration requests
type WheelHandler struct {
	wheelService services.WheelService
}

// NewWheelHandler creates a new WheelHandler
func NewWheelHandler(wheelService services.WheelService) *WheelHandler {
	return &WheelHandler{
		wheelService: wheelService,
	}
}

// GetWheel handles GET /wheel, used by the frontend to render sectors
func (h *WheelHandler) GetWheel(c *gin.Context) {
	items, err := h.wheelService.GetWheel(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// SetWheel handles PUT /admin/wheel, replacing the tenant's wheel wholesale
func (h *WheelHandler) SetWheel(c *gin.Context) {
	var req struct {
		Items []models.WheelItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.wheelService.ReplaceWheel(c.Request.Context(), middleware.TenantID(c), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
