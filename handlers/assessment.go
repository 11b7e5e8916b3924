package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onlyvolunteer/backend/auth"
	"github.com/onlyvolunteer/backend/match"
	"github.com/onlyvolunteer/backend/models"
)

// AssessmentHandler handles match assessment requests
type AssessmentHandler struct {
	assessor *match.Assessor
	profiler *match.Profiler
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessor *match.Assessor, profiler *match.Profiler) *AssessmentHandler {
	return &AssessmentHandler{assessor: assessor, profiler: profiler}
}

// Assess runs the match assessment from questionnaire answers
// @Summary Run a match assessment
// @Description Build a volunteer profile from questionnaire answers and return the top scored opportunities. Works for anonymous users; authenticated users get their profile persisted.
// @Tags Matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AssessmentRequest true "Assessment request"
// @Success 200 {object} match.AssessmentOutput "Assessment result"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /assessment [post]
func (h *AssessmentHandler) Assess(c *gin.Context) {
	var req models.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	if claims := auth.GetAuthClaims(c); claims != nil {
		req.UserID = claims.UserID
	}

	var (
		output *match.AssessmentOutput
		err    error
	)
	if len(req.Answers) == 0 && req.UserID != "" {
		output, err = h.assessor.RunFromStoredProfile(c.Request.Context(), req.UserID)
	} else {
		output, err = h.assessor.Run(c.Request.Context(), req.UserID, req.Answers)
	}
	if err != nil {
		log.Printf("[AssessmentHandler] Assessment failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Assessment failed",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, output)
}

// NextQuestion advances the conversational profiler by one turn
// @Summary Get the next profiler question
// @Description Given the conversation so far, returns either the next profiling question or the completed profile.
// @Tags Matching
// @Accept json
// @Produce json
// @Param request body models.ProfilerRequest true "Profiler request"
// @Success 200 {object} match.ProfilerResponse "Next question or completed profile"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Router /profiler/next [post]
func (h *AssessmentHandler) NextQuestion(c *gin.Context) {
	var req models.ProfilerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	resp := h.profiler.NextQuestion(c.Request.Context(), req.ConversationHistory)
	c.JSON(http.StatusOK, resp)
}
