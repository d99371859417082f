package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 3, ClampLimit(0, 3, 50))
	assert.Equal(t, 3, ClampLimit(-7, 3, 50))
	assert.Equal(t, 10, ClampLimit(10, 3, 50))
	assert.Equal(t, 50, ClampLimit(500, 3, 50))
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		raw  string
		id   int64
		isOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: "id", Value: tt.raw}}
			id, ok := ParseIDParam(c, "id")
			assert.Equal(t, tt.isOK, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
}
