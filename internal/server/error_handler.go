// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/media-metadata-gateway/internal/metadata"
)

// ErrorResponse provides a consistent error response format
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Status int    `json:"status"`
}

// RespondWithError sends a standardized error response and logs the error
func RespondWithError(c *gin.Context, statusCode int, message string, code string) {
	// Log the error with context
	logErrorWithContext(c, statusCode, message)

	c.JSON(statusCode, ErrorResponse{
		Error:  message,
		Code:   code,
		Status: statusCode,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error response
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

// RespondWithNotFound sends a 404 Not Found error response
func RespondWithNotFound(c *gin.Context, resourceType string, id string) {
	message := resourceType + " not found"
	if id != "" {
		message = message + ": " + id
	}
	RespondWithError(c, http.StatusNotFound, message, "NOT_FOUND")
}

// RespondWithInternalError sends a 500 Internal Server Error response
func RespondWithInternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// RespondWithUpstreamError sends a 502 Bad Gateway error response
func RespondWithUpstreamError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadGateway, message, "UPSTREAM_ERROR")
}

// RespondWithProviderError maps a provider error onto the API error contract.
// Missing records map to 404, locale misconfiguration to 400, upstream
// transport and status failures to 502, and normalization assertions to 500.
func RespondWithProviderError(c *gin.Context, source metadata.SourceKind, err error) {
	var configErr *metadata.ConfigError
	var assertErr *metadata.AssertionError
	var upstreamErr *metadata.UpstreamError

	switch {
	case errors.Is(err, metadata.ErrNotFound):
		RespondWithNotFound(c, "media", c.Param("id"))
	case errors.As(err, &configErr):
		RespondWithBadRequest(c, configErr.Error())
	case errors.As(err, &assertErr):
		RespondWithInternalError(c, assertErr.Error())
	case errors.As(err, &upstreamErr):
		RespondWithUpstreamError(c, upstreamErr.Error())
	default:
		RespondWithUpstreamError(c, fmt.Sprintf("%s request failed: %v", source, err))
	}
}

// logErrorWithContext logs an error with request context for debugging
func logErrorWithContext(c *gin.Context, statusCode int, message string) {
	method := c.Request.Method
	path := c.Request.URL.Path
	clientIP := c.ClientIP()

	logLevel := "WARN"
	if statusCode >= 500 {
		logLevel = "ERROR"
	}

	log.Printf("[%s] %s %s %d - %s (from %s)", logLevel, method, path, statusCode, message, clientIP)
}

// ParseQueryInt parses an integer query parameter with a default value
func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.DefaultQuery(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
