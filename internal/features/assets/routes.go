package assets

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todospa/internal/pkg/logger"
)

// RegisterRoutes installs the asset server as the engine's fallback. Unknown
// paths under apiPrefix get a plain 404 instead of the SPA shell.
func RegisterRoutes(router *gin.Engine, bundle *Bundle, apiPrefix string, log *logger.Logger) {
	handler := NewHandler(bundle, log)

	router.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == apiPrefix || strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		handler.Serve(c)
	})
}
