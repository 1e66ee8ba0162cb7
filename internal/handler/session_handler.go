package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/certprep/dva-practice-backend/internal/model"
	"github.com/certprep/dva-practice-backend/internal/response"
	"github.com/certprep/dva-practice-backend/internal/service"
	"github.com/certprep/dva-practice-backend/internal/validator"
)

// SessionHandler handles the exam session endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSession godoc
// POST /api/v1/sessions
// Starts a timed session on a practice set, or resumes the caller's
// active session on that set.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	setID, err := uuid.Parse(req.SetID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.sessionService.StartExam(c.Request.Context(), req.UserID, setID)
	if err != nil {
		failFromService(c, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// CurrentQuestion godoc
// GET /api/v1/sessions/:session_id/question
// Serves the question at the session cursor.
func (h *SessionHandler) CurrentQuestion(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	result, err := h.sessionService.CurrentQuestion(c.Request.Context(), sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// SubmitAnswer godoc
// POST /api/v1/sessions/:session_id/answers
// Grades and records an answer for the current question.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.SubmitAnswer(c.Request.Context(), sessionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// SkipQuestion godoc
// POST /api/v1/sessions/:session_id/skip
// Records the current question as skipped and advances.
func (h *SessionHandler) SkipQuestion(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req model.SkipQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.SkipQuestion(c.Request.Context(), sessionID, req.QuestionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Score godoc
// GET /api/v1/sessions/:session_id/score
// Builds the full exam report for a session.
func (h *SessionHandler) Score(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	report, err := h.sessionService.Score(c.Request.Context(), sessionID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return sessionID, true
}
