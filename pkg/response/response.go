// Package response defines the JSON envelope returned by every HTTP endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Code: 0, Message: "created", Data: data})
}

func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, Body{Code: status, Message: message})
}

// ErrorWithDetails carries structured, field-indexed errors so the UI can
// attribute each message to the offending input.
func ErrorWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, Body{Code: status, Message: message, Errors: details})
}
