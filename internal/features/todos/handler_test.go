package todos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/todospa/internal/pkg/logger"
)

// memStore mimics Repository semantics in memory.
type memStore struct {
	mu    sync.Mutex
	todos map[primitive.ObjectID]Todo
	clock time.Time
	err   error
}

func newMemStore() *memStore {
	return &memStore{
		todos: map[primitive.ObjectID]Todo{},
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) List(ctx context.Context) ([]Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) GetByID(ctx context.Context, id primitive.ObjectID) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *memStore) Create(ctx context.Context, title string) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	t := NewTodo(title, s.tick())
	t.ID = primitive.NewObjectID()
	s.todos[t.ID] = *t
	return t, nil
}

func (s *memStore) Update(ctx context.Context, id primitive.ObjectID, req UpdateTodoRequest) (*Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	t.UpdatedAt = s.tick()
	s.todos[id] = t
	return &t, nil
}

func (s *memStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.todos[id]; !ok {
		return ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)

	r := gin.New()
	RegisterRoutes(r.Group("/api"), store, log)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) TodoResponse {
	t.Helper()
	var out TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreate_TrimsTitle(t *testing.T) {
	store := newMemStore()
	r := setupRouter(store)

	w := do(t, r, "POST", "/api/todos", map[string]string{"title": "  Buy milk  "})
	require.Equal(t, http.StatusCreated, w.Code)

	todo := decodeTodo(t, w)
	require.Equal(t, "Buy milk", todo.Title)
	require.False(t, todo.Completed)
	require.Len(t, todo.ID, 24)
	require.NotEmpty(t, todo.CreatedAt)
	require.Equal(t, todo.CreatedAt, todo.UpdatedAt)
}

func TestCreate_RejectsBlankTitle(t *testing.T) {
	for name, title := range map[string]string{"empty": "", "whitespace": "   "} {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			r := setupRouter(store)

			w := do(t, r, "POST", "/api/todos", map[string]string{"title": title})
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, "Title cannot be empty", w.Body.String())
			require.Empty(t, store.todos)
		})
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	store := newMemStore()
	r := setupRouter(store)

	w := do(t, r, "POST", "/api/todos", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, store.todos)
}

func TestGet_RoundTrip(t *testing.T) {
	r := setupRouter(newMemStore())

	created := decodeTodo(t, do(t, r, "POST", "/api/todos", map[string]string{"title": "Walk dog"}))

	w := do(t, r, "GET", "/api/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, created, decodeTodo(t, w))
}

func TestGet_Errors(t *testing.T) {
	r := setupRouter(newMemStore())

	w := do(t, r, "GET", "/api/todos/not-an-id", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid ID format", w.Body.String())

	w = do(t, r, "GET", "/api/todos/"+primitive.NewObjectID().Hex(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Todo not found", w.Body.String())
}

func TestUpdate_CompletedOnly(t *testing.T) {
	r := setupRouter(newMemStore())
	created := decodeTodo(t, do(t, r, "POST", "/api/todos", map[string]string{"title": "Read book"}))

	w := do(t, r, "PUT", "/api/todos/"+created.ID, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeTodo(t, w)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Read book", updated.Title)
	require.True(t, updated.Completed)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	before, err := time.Parse(time.RFC3339, created.UpdatedAt)
	require.NoError(t, err)
	after, err := time.Parse(time.RFC3339, updated.UpdatedAt)
	require.NoError(t, err)
	require.True(t, after.After(before))
}

func TestUpdate_TrimsTitle(t *testing.T) {
	r := setupRouter(newMemStore())
	created := decodeTodo(t, do(t, r, "POST", "/api/todos", map[string]string{"title": "Old"}))

	w := do(t, r, "PUT", "/api/todos/"+created.ID, map[string]string{"title": "  New  "})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "New", decodeTodo(t, w).Title)
}

func TestUpdate_RejectsWithoutMutation(t *testing.T) {
	store := newMemStore()
	r := setupRouter(store)
	created := decodeTodo(t, do(t, r, "POST", "/api/todos", map[string]string{"title": "Keep me"}))

	tests := map[string]struct {
		path string
		body any
		code int
	}{
		"malformed id": {"/api/todos/xyz", map[string]bool{"completed": true}, http.StatusBadRequest},
		"unknown id":   {"/api/todos/" + primitive.NewObjectID().Hex(), map[string]bool{"completed": true}, http.StatusNotFound},
		"blank title":  {"/api/todos/" + created.ID, map[string]string{"title": "  "}, http.StatusBadRequest},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(t, r, "PUT", tt.path, tt.body)
			require.Equal(t, tt.code, w.Code)

			current := decodeTodo(t, do(t, r, "GET", "/api/todos/"+created.ID, nil))
			require.Equal(t, created, current)
		})
	}
}

func TestDelete_Twice(t *testing.T) {
	r := setupRouter(newMemStore())
	created := decodeTodo(t, do(t, r, "POST", "/api/todos", map[string]string{"title": "Temp"}))

	w := do(t, r, "DELETE", "/api/todos/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Zero(t, w.Body.Len())

	w = do(t, r, "DELETE", "/api/todos/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, "DELETE", "/api/todos/zzz", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList_NewestFirst(t *testing.T) {
	r := setupRouter(newMemStore())

	w := do(t, r, "GET", "/api/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())

	for _, title := range []string{"A", "B", "C"} {
		require.Equal(t, http.StatusCreated, do(t, r, "POST", "/api/todos", map[string]string{"title": title}).Code)
	}

	w = do(t, r, "GET", "/api/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 3)
	require.Equal(t, []string{"C", "B", "A"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestStorageErrors(t *testing.T) {
	store := newMemStore()
	r := setupRouter(store)

	store.err = errors.New("connection refused")
	w := do(t, r, "GET", "/api/todos", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "connection refused", w.Body.String())

	store.err = &DecodeError{Err: errors.New("cannot decode string into a time.Time")}
	w = do(t, r, "GET", "/api/todos", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Database format mismatch")
	require.Contains(t, w.Body.String(), "drop the 'todos' collection")
}
