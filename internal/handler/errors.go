package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certprep/dva-practice-backend/internal/response"
	"github.com/certprep/dva-practice-backend/internal/service"
)

// failFromService maps service sentinel errors onto the HTTP error
// taxonomy. Anything unrecognized is an internal error.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSetNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSetNotFound)
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionMissing)
	case errors.Is(err, service.ErrSessionExpired):
		response.Fail(c, http.StatusRequestTimeout, response.ErrSessionExpired)
	case errors.Is(err, service.ErrSessionCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
	case errors.Is(err, service.ErrSubmitConflict):
		response.Fail(c, http.StatusConflict, response.ErrSubmitConflict)
	case errors.Is(err, service.ErrSetNumberOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrSetOutOfRange)
	case errors.Is(err, service.ErrProviderFailure):
		response.Fail(c, http.StatusBadGateway, response.ErrProviderFailure)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
