package todos

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todospa/internal/pkg/logger"
)

func RegisterRoutes(router *gin.RouterGroup, store Store, log *logger.Logger) {
	handler := NewHandler(store, log)

	todos := router.Group("/todos")
	{
		todos.GET("", handler.List)
		todos.POST("", handler.Create)
		todos.GET("/:id", handler.Get)
		todos.PUT("/:id", handler.Update)
		todos.DELETE("/:id", handler.Delete)
	}
}
