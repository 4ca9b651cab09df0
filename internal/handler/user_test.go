package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"devicepulse/internal/config"
	"devicepulse/internal/model"
	"devicepulse/internal/service"
)

type stubUserRepository struct{}

func (stubUserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = "u-1"
	return nil
}
func (stubUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	return []model.User{}, nil
}
func (stubUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}
func (stubUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}
func (stubUserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return nil
}
func (stubUserRepository) Delete(ctx context.Context, id string) error {
	return nil // the store reports success for absent ids too
}

func newUserHandler() *UserHandler {
	cfg := &config.Config{JWTSecret: "test-secret", AccessTokenMaxAge: 900}
	return NewUserHandler(service.NewUserService(stubUserRepository{}), service.NewAuthService(cfg), cfg)
}

func TestUserHandler_Delete_NonexistentIDReportsSuccess(t *testing.T) {
	h := newUserHandler()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "never-existed")
	req := httptest.NewRequest(http.MethodDelete, "/users/never-existed", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for idempotent delete, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got: %s", rec.Body.String())
	}
}

func TestUserHandler_GetByID_NotFound(t *testing.T) {
	h := newUserHandler()

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
