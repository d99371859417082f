package middleware

import (
	"github.com/gin-gonic/gin"
)

// BindJSON binds and validates the request body. On failure it writes the
// validation error response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		AbortWithBindError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		AbortWithBindError(c, err)
		return false
	}
	return true
}
