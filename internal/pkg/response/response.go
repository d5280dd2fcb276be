package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success bodies are the bare JSON value. The SPA consumes arrays and
// objects directly, so there is no envelope.

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 with an empty body
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends a plain-text error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string) {
	c.String(statusCode, message)
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// TooManyRequests sends a 429 error
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// ServiceUnavailable sends a 503 Service Unavailable with a JSON body
func ServiceUnavailable(c *gin.Context, data interface{}) {
	c.JSON(http.StatusServiceUnavailable, data)
}

// BindJSONError handles JSON decode errors in request body
func BindJSONError(c *gin.Context, err error) {
	BadRequest(c, "Invalid request body: "+err.Error())
}

// DatabaseError handles database operation errors. The driver message is
// passed through so operators can see what went wrong.
func DatabaseError(c *gin.Context, err error) {
	InternalServerError(c, err.Error())
}
