package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success and failure bodies both carry an explicit "success" flag; callers
// distinguish them by the flag, never by shape.

// OK sends a 200 response with success set.
func OK(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// BadRequest sends a 400 failure response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// NotFound sends a 404 failure response.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": "not found"})
}

// MethodNotAllowed sends a 405 failure response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "method not allowed"})
}

// InternalError sends a 500 failure response carrying the cause message.
func InternalError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

// Unavailable sends a 503 failure response for store connectivity problems.
func Unavailable(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
}
