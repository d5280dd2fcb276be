package todos

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a path parameter to an ObjectID before any storage call.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// ValidateCreateTodo trims the title in place and rejects blank ones.
func ValidateCreateTodo(req *CreateTodoRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateUpdateTodo trims a supplied title in place. An absent title is fine,
// a supplied blank one is not.
func ValidateUpdateTodo(req *UpdateTodoRequest) error {
	if req.Title == nil {
		return nil
	}
	title := strings.TrimSpace(*req.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	req.Title = &title
	return nil
}
