package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spinmate/wheel-backend/internal/middleware"
	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/services"
)

// SpinHandler handles the bot-frontend operations: status, spin, lead
type SpinHandler struct {
	spinService services.SpinService
}

// NewSpinHandler creates a new SpinHandler
func NewSpinHandler(spinService services.SpinService) *SpinHandler {
	return &SpinHandler{
		spinService: spinService,
	}
}

// GetStatus handles GET /status/:userId
func (h *SpinHandler) GetStatus(c *gin.Context) {
	userID := c.Param("userId")

	status, err := h.spinService.GetStatus(c.Request.Context(), middleware.TenantID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Spin handles POST /spin
func (h *SpinHandler) Spin(c *gin.Context) {
	var req models.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.spinService.Spin(c.Request.Context(), middleware.TenantID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitLead handles POST /leads
func (h *SpinHandler) SubmitLead(c *gin.Context) {
	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.spinService.SubmitLead(c.Request.Context(), middleware.TenantID(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetSpinHistory handles GET /spins/:userId
func (h *SpinHandler) GetSpinHistory(c *gin.Context) {
	userID := c.Param("userId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	spins, err := h.spinService.SpinHistory(c.Request.Context(), middleware.TenantID(c), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, spins)
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrSelfReferral):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "QUOTA_EXCEEDED"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
