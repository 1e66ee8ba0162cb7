package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certprep/dva-practice-backend/internal/response"
	"github.com/certprep/dva-practice-backend/internal/service"
)

// GenerationHandler handles the batch generation endpoints.
type GenerationHandler struct {
	generationService *service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// TriggerGeneration godoc
// POST /api/v1/sets/generate
// Queues generation of the full practice set catalog. Returns 202 when
// work was queued, 200 when nothing needed to be done.
func (h *GenerationHandler) TriggerGeneration(c *gin.Context) {
	result, err := h.generationService.TriggerBatch(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}

	status := http.StatusOK
	if result.Triggered {
		status = http.StatusAccepted
	}
	response.Success(c, status, result)
}

// GenerationStatus godoc
// GET /api/v1/sets/generation-status
// Reports the generation job counters and the stored set count.
func (h *GenerationHandler) GenerationStatus(c *gin.Context) {
	view, err := h.generationService.Status(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}
