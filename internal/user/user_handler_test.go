package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-otta/internal/user"
	usererrors "go-otta/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	getAllFn       func(ctx context.Context) ([]user.UserResponse, error)
	createFn       func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	deleteFn       func(ctx context.Context, id string) error
	getSessionFn   func(ctx context.Context) (*user.UserResponse, error)
	startSessionFn func(ctx context.Context, userID string) (user.UserResponse, error)
	endSessionFn   func(ctx context.Context) error
	getThemeFn     func(ctx context.Context) (user.ThemeResponse, error)
	setThemeFn     func(ctx context.Context, theme string) (user.ThemeResponse, error)
}

func (f *fakeService) GetAll(ctx context.Context) ([]user.UserResponse, error) { return f.getAllFn(ctx) }
func (f *fakeService) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeService) Delete(ctx context.Context, id string) error { return f.deleteFn(ctx, id) }
func (f *fakeService) GetSession(ctx context.Context) (*user.UserResponse, error) {
	return f.getSessionFn(ctx)
}
func (f *fakeService) StartSession(ctx context.Context, userID string) (user.UserResponse, error) {
	return f.startSessionFn(ctx, userID)
}
func (f *fakeService) EndSession(ctx context.Context) error { return f.endSessionFn(ctx) }
func (f *fakeService) GetTheme(ctx context.Context) (user.ThemeResponse, error) {
	return f.getThemeFn(ctx)
}
func (f *fakeService) SetTheme(ctx context.Context, theme string) (user.ThemeResponse, error) {
	return f.setThemeFn(ctx, theme)
}

func newRouter(svc user.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	user.RegisterRoutes(r.Group("/api/v1"), user.NewHandler(svc, zap.NewNop()))
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_GetAll_Filters(t *testing.T) {
	svc := &fakeService{
		getAllFn: func(ctx context.Context) ([]user.UserResponse, error) {
			return []user.UserResponse{
				{ID: "u1", Name: "Alex Rivera", Role: "EMPLOYEE", Department: "Engineering"},
				{ID: "u2", Name: "Sarah Chen", Role: "HR", Department: "Human Resources"},
				{ID: "u3", Name: "Jordan Smith", Role: "EMPLOYEE", Department: "Design"},
			}, nil
		},
	}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/v1/users?role=employee&q=design", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data []user.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "u3", env.Data[0].ID)
}

func TestUserHandler_Create(t *testing.T) {
	svc := &fakeService{
		createFn: func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
			return user.UserResponse{ID: "u-new", Name: req.Name, Role: req.Role}, nil
		},
	}
	r := newRouter(svc)

	w := do(r, http.MethodPost, "/api/v1/users", `{"name":"Kim Lee","email":"kim@otta.com","role":"HR"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "u-new")

	w = do(r, http.MethodPost, "/api/v1/users", `{"name":"Kim Lee","email":"not-an-email","role":"HR"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestUserHandler_Delete_SessionUser(t *testing.T) {
	svc := &fakeService{
		deleteFn: func(ctx context.Context, id string) error {
			assert.Equal(t, "u1", id)
			return usererrors.ErrRemoveSessionUser
		},
	}
	r := newRouter(svc)

	w := do(r, http.MethodDelete, "/api/v1/users/u1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_Session(t *testing.T) {
	svc := &fakeService{
		getSessionFn: func(ctx context.Context) (*user.UserResponse, error) { return nil, nil },
		startSessionFn: func(ctx context.Context, userID string) (user.UserResponse, error) {
			if userID != "u2" {
				return user.UserResponse{}, usererrors.ErrUserNotFound
			}
			return user.UserResponse{ID: "u2", Name: "Sarah Chen"}, nil
		},
		endSessionFn: func(ctx context.Context) error { return nil },
	}
	r := newRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/session", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/api/v1/session", `{"userId":"u2"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/api/v1/session", `{"userId":"zz"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/v1/session", `{}`).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/v1/session", "").Code)
}

func TestUserHandler_Theme(t *testing.T) {
	svc := &fakeService{
		getThemeFn: func(ctx context.Context) (user.ThemeResponse, error) {
			return user.ThemeResponse{Theme: "dark"}, nil
		},
		setThemeFn: func(ctx context.Context, theme string) (user.ThemeResponse, error) {
			return user.ThemeResponse{Theme: theme}, nil
		},
	}
	r := newRouter(svc)

	w := do(r, http.MethodGet, "/api/v1/theme", "")
	assert.Contains(t, w.Body.String(), `"theme":"dark"`)

	w = do(r, http.MethodPut, "/api/v1/theme", `{"theme":"light"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, "/api/v1/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
