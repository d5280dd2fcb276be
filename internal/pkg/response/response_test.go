package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestSuccessAndErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// Test Success
	Success(c, []map[string]string{{"foo": "bar"}})
	require.Equal(t, 200, w.Code)
	var body []map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	require.Len(t, body, 1)
	require.Equal(t, "bar", body[0]["foo"])

	// Test Error
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	BadRequest(c, "Invalid ID format")
	require.Equal(t, 400, w.Code)
	require.Equal(t, "Invalid ID format", w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestDatabaseError_ExposesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	DatabaseError(c, errors.New("server selection timeout"))
	require.Equal(t, 500, w.Code)
	require.Equal(t, "server selection timeout", w.Body.String())
}

func TestNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/x", func(c *gin.Context) { NoContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/x", nil))

	require.Equal(t, 204, w.Code)
	require.Zero(t, w.Body.Len())
}
