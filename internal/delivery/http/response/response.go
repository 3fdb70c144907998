package response

import (
	"github.com/gin-gonic/gin"
)

// OKResponse is the body of an accepted submission
type OKResponse struct {
	OK   bool   `json:"ok" example:"true"`
	Note string `json:"note,omitempty" example:"No webhook configured"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid email"`
}

// OK sends {ok:true} with an optional note
func OK(c *gin.Context, code int, note string) {
	c.JSON(code, OKResponse{OK: true, Note: note})
}

// Error sends {error:message}
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// Data sends an arbitrary JSON document (health, diagnostics)
func Data(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}
