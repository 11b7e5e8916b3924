package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onlyvolunteer/backend/auth"
	"github.com/onlyvolunteer/backend/models"
	"github.com/onlyvolunteer/backend/tools"
)

// InsightsHandler serves role-scoped analytics directly, outside the
// assistant chat flow.
type InsightsHandler struct {
	analytics *tools.AnalyticsTool
	matching  *tools.MatchingTool
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(analytics *tools.AnalyticsTool, matching *tools.MatchingTool) *InsightsHandler {
	return &InsightsHandler{analytics: analytics, matching: matching}
}

// GetInsights returns metrics and generated insight text for the caller
// @Summary Get analytics insights
// @Description Gather role-scoped metrics plus descriptive and prescriptive insight text. Pass ?q= to ask a question about the numbers.
// @Tags Insights
// @Produce json
// @Security BearerAuth
// @Param q query string false "Optional question about the metrics"
// @Success 200 {object} tools.AnalyticsOutput "Insights"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /insights [get]
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	claims := auth.GetAuthClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Unauthorized",
			Code:  http.StatusUnauthorized,
		})
		return
	}

	out, err := h.analytics.Run(c.Request.Context(), &tools.Request{
		UserID:  claims.UserID,
		Message: c.Query("q"),
	})
	if err != nil {
		log.Printf("[InsightsHandler] Analytics failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to gather insights",
			Code:  http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, out)
}

// GetMatches returns capacity-aware opportunity matches for the caller
// @Summary Get opportunity matches
// @Description Score upcoming opportunities against the caller's stored profile, favouring listings with open slots.
// @Tags Matching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} tools.MatchingOutput "Scored matches"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /matches [get]
func (h *InsightsHandler) GetMatches(c *gin.Context) {
	claims := auth.GetAuthClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Unauthorized",
			Code:  http.StatusUnauthorized,
		})
		return
	}

	out, err := h.matching.Run(c.Request.Context(), &tools.Request{UserID: claims.UserID})
	if err != nil {
		log.Printf("[InsightsHandler] Matching failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Failed to gather matches",
			Code:  http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, out)
}
