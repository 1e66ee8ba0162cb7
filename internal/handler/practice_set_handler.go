package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/certprep/dva-practice-backend/internal/response"
	"github.com/certprep/dva-practice-backend/internal/service"
)

// PracticeSetHandler handles the practice set catalog endpoints.
type PracticeSetHandler struct {
	setService *service.PracticeSetService
}

// NewPracticeSetHandler creates a new PracticeSetHandler.
func NewPracticeSetHandler(setService *service.PracticeSetService) *PracticeSetHandler {
	return &PracticeSetHandler{setService: setService}
}

// ListSets godoc
// GET /api/v1/sets
// Lists all stored practice sets.
func (h *PracticeSetHandler) ListSets(c *gin.Context) {
	sets, err := h.setService.ListSets(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"sets":  sets,
		"total": len(sets),
	})
}

// GetSetQuestions godoc
// GET /api/v1/sets/:set_number/questions?include_answers=true&user_id=...
// Returns the full question list of one set, optionally with answers and
// the caller's progress overlay.
func (h *PracticeSetHandler) GetSetQuestions(c *gin.Context) {
	setNumber, err := strconv.Atoi(c.Param("set_number"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	includeAnswers := c.Query("include_answers") == "true"
	userID := c.Query("user_id")

	detail, err := h.setService.GetSetByNumber(c.Request.Context(), setNumber, includeAnswers, userID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}
