package handlers

import (
	"errors"
	"net/http"

	"unjumble/services"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope every successful endpoint returns.
type SuccessResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{StatusCode: status, Message: message, Data: data})
}

// respondError maps service sentinel errors onto HTTP statuses; anything
// unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrDataNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrDuplicateName), errors.Is(err, services.ErrInvalidGame):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"status_code": status, "message": err.Error()})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"status_code": http.StatusBadRequest, "message": message})
}

func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"status_code": http.StatusUnauthorized, "message": "User not authenticated"})
}
