package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onlyvolunteer/backend/auth"
	"github.com/onlyvolunteer/backend/catalog"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/newsalerts"
)

// AdminHandler exposes manual triggers for the background jobs.
type AdminHandler struct {
	news       *newsalerts.Service
	maintainer *catalog.Maintainer
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(news *newsalerts.Service, maintainer *catalog.Maintainer) *AdminHandler {
	return &AdminHandler{news: news, maintainer: maintainer}
}

func (h *AdminHandler) requireAdmin(c *gin.Context) bool {
	claims := auth.GetAuthClaims(c)
	if claims == nil || claims.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: "Admin access required",
			Code:  http.StatusForbidden,
		})
		return false
	}
	return true
}

// RefreshAlerts runs the news alert pipeline immediately
// @Summary Trigger news alert generation
// @Description Poll the configured news feeds now and regenerate alerts instead of waiting for the next scheduled run.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} newsalerts.Result "Run result"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 500 {object} models.ErrorResponse "Run failed"
// @Router /admin/alerts/refresh [post]
func (h *AdminHandler) RefreshAlerts(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	result, err := h.news.Run(c.Request.Context())
	if err != nil {
		log.Printf("[AdminHandler] News alert run failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Alert generation failed",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SweepCatalog runs the catalog maintenance sweep immediately
// @Summary Trigger a catalog sweep
// @Description Fill in missing tags and embeddings for recent listings now instead of waiting for the next scheduled sweep.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} catalog.SweepResult "Sweep result"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 500 {object} models.ErrorResponse "Sweep failed"
// @Router /admin/catalog/sweep [post]
func (h *AdminHandler) SweepCatalog(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	result, err := h.maintainer.Sweep(c.Request.Context())
	if err != nil {
		log.Printf("[AdminHandler] Catalog sweep failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Catalog sweep failed",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
