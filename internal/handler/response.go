package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invoicepal/invoicepal-api/internal/model"
)

// Common error messages
const (
	ErrInvalidInput     = "Invalid input format"
	ErrResourceNotFound = "Resource not found"
	ErrInternalServer   = "Internal server error"
	ErrValidationFailed = "Invoice validation failed"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	response := model.ErrorResponse{
		Status:  http.StatusText(statusCode),
		Message: message,
		Details: details,
	}
	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, http.StatusBadRequest, message, details...)
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	respondWithError(c, http.StatusUnauthorized, message)
}

// respondConflict sends a 409 Conflict response
func respondConflict(c *gin.Context, message string) {
	respondWithError(c, http.StatusConflict, message)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, message)
}

// respondUnprocessableEntity sends a 422 Unprocessable Entity response
func respondUnprocessableEntity(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, http.StatusUnprocessableEntity, message, details...)
}

// respondInternalServerError sends a 500 Internal Server Error response
func respondInternalServerError(c *gin.Context, message string) {
	respondWithError(c, http.StatusInternalServerError, message)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// respondCreated sends a 201 Created response with data
func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// respondNoContent sends a 204 No Content response
func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
