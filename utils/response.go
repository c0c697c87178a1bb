package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{Success: true, Message: message})
}

func RespondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{Success: false, Message: message})
}

// RespondWithValidationErrors sends a 400 with a per-field errors list.
func RespondWithValidationErrors(c *gin.Context, errs interface{}) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: "Validation failed", Errors: errs})
}

func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, message)
}

// RespondWithInternalError hides detail from the caller; log it server-side.
func RespondWithInternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, message)
}
