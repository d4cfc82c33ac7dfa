package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/invoicepal/invoicepal-api/internal/model"
	"github.com/invoicepal/invoicepal-api/internal/validation"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// currentUserID returns the authenticated user id set by the auth middleware,
// or "" when the request is unauthenticated.
func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// fieldErrorDetails converts validation field errors to response details,
// preserving their order.
func fieldErrorDetails(errs []validation.FieldError) []model.ErrorDetail {
	details := make([]model.ErrorDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, model.ErrorDetail{
			Field:   e.Field,
			Message: e.Message,
		})
	}
	return details
}
