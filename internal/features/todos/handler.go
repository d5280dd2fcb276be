package todos

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/todospa/internal/pkg/logger"
	"github.com/xyz-asif/todospa/internal/pkg/response"
)

// Store is the subset of Repository the handler needs.
type Store interface {
	List(ctx context.Context) ([]Todo, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Todo, error)
	Create(ctx context.Context, title string) (*Todo, error)
	Update(ctx context.Context, id primitive.ObjectID, req UpdateTodoRequest) (*Todo, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Handler struct {
	store Store
	log   *logger.Logger
}

func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// List godoc
// @Summary List todos
// @Description Get every todo, newest first
// @Tags todos
// @Produce json
// @Success 200 {array} TodoResponse
// @Failure 500 {string} string
// @Router /todos [get]
func (h *Handler) List(c *gin.Context) {
	todos, err := h.store.List(c.Request.Context())
	if err != nil {
		h.storageError(c, err)
		return
	}

	response.Success(c, ToResponses(todos))
}

// Get godoc
// @Summary Get a todo by ID
// @Tags todos
// @Produce json
// @Param id path string true "Todo ID"
// @Success 200 {object} TodoResponse
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /todos/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	todo, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		h.storageError(c, err)
		return
	}

	response.Success(c, todo.ToResponse())
}

// Create godoc
// @Summary Create a new todo
// @Tags todos
// @Accept json
// @Produce json
// @Param request body CreateTodoRequest true "Todo creation data"
// @Success 201 {object} TodoResponse
// @Failure 400 {string} string
// @Failure 500 {string} string
// @Router /todos [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateCreateTodo(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	todo, err := h.store.Create(c.Request.Context(), req.Title)
	if err != nil {
		h.storageError(c, err)
		return
	}

	response.Created(c, todo.ToResponse())
}

// Update godoc
// @Summary Update a todo
// @Description Only supplied fields change; updated_at is always refreshed
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Todo ID"
// @Param request body UpdateTodoRequest true "Fields to change"
// @Success 200 {object} TodoResponse
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /todos/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateUpdateTodo(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	todo, err := h.store.Update(c.Request.Context(), id, req)
	if err != nil {
		h.storageError(c, err)
		return
	}

	response.Success(c, todo.ToResponse())
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Param id path string true "Todo ID"
// @Success 204
// @Failure 400 {string} string
// @Failure 404 {string} string
// @Failure 500 {string} string
// @Router /todos/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.storageError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *Handler) storageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, err.Error())
	case IsDecodeError(err):
		h.log.Error("Data mismatch in MongoDB: %v", err)
		response.InternalServerError(c, err.Error())
	default:
		response.DatabaseError(c, err)
	}
}
