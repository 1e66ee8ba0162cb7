package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certprep/dva-practice-backend/internal/model"
	"github.com/certprep/dva-practice-backend/internal/response"
	"github.com/certprep/dva-practice-backend/internal/service"
	"github.com/certprep/dva-practice-backend/internal/validator"
)

// ExplanationHandler handles the on-demand explanation endpoint.
type ExplanationHandler struct {
	explanationService *service.ExplanationService
}

// NewExplanationHandler creates a new ExplanationHandler.
func NewExplanationHandler(explanationService *service.ExplanationService) *ExplanationHandler {
	return &ExplanationHandler{explanationService: explanationService}
}

// ExplainQuestion godoc
// POST /api/v1/questions/:question_id/explanation
// Generates a detailed explanation contrasting the caller's answer with
// the correct one.
func (h *ExplanationHandler) ExplainQuestion(c *gin.Context) {
	questionID := c.Param("question_id")

	var req model.ExplanationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.explanationService.Explain(c.Request.Context(), questionID, req.UserAnswers)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
