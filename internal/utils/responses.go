package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketpulse/internal/apperr"
	"ticketpulse/internal/models/dto"
)

// RespondError writes the error envelope for err with the status its class
// maps to and aborts the chain
func RespondError(c *gin.Context, err error, message string) {
	code := apperr.HTTPStatus(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, dto.NewErrorResponse(c, code, err.Error(), message, apperr.Details(err)))
}

// RespondOK writes a success envelope
func RespondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(c, data, message))
}
