package todos

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimeFormat renders timestamps as RFC 3339 in UTC with millisecond
// precision, which is what a BSON datetime can hold.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Todo is the stored document
type Todo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// TodoResponse is the wire shape of a todo
// @Description Todo item as returned by the API
type TodoResponse struct {
	ID        string `json:"id" example:"507f1f77bcf86cd799439011"`
	Title     string `json:"title" example:"Buy milk"`
	Completed bool   `json:"completed" example:"false"`
	CreatedAt string `json:"created_at" example:"2024-01-01T12:00:00.000Z"`
	UpdatedAt string `json:"updated_at" example:"2024-01-01T12:00:00.000Z"`
}

// CreateTodoRequest represents todo creation data
// @Description Data required to create a new todo
type CreateTodoRequest struct {
	Title string `json:"title" example:"Buy milk"`
}

// UpdateTodoRequest carries optional fields; nil means leave unchanged.
// @Description Partial update of an existing todo
type UpdateTodoRequest struct {
	Title     *string `json:"title,omitempty" example:"Buy oat milk"`
	Completed *bool   `json:"completed,omitempty" example:"true"`
}

func NewTodo(title string, now time.Time) *Todo {
	return &Todo{
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Todo) ToResponse() TodoResponse {
	return TodoResponse{
		ID:        t.ID.Hex(),
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
}

func ToResponses(todos []Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, todos[i].ToResponse())
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeFormat)
}
