package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/barracks/account-service/internal/api/middleware"
	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/ports"
)

type stubUserService struct {
	getProfileFn    func(ctx context.Context, acting *domain.User, targetID string) (*domain.User, error)
	listUsersFn     func(ctx context.Context, acting *domain.User) ([]*domain.User, error)
	updateProfileFn func(ctx context.Context, acting *domain.User, targetID string, input ports.ProfileUpdateInput) (*domain.User, error)
	impersonateFn   func(ctx context.Context, acting *domain.User, targetID string) (*domain.Token, *domain.User, error)
	setPictureFn    func(ctx context.Context, acting *domain.User, filename, pictureURL string) (*domain.User, error)
	deleteAccountFn func(ctx context.Context, acting *domain.User) error
}

func (s *stubUserService) GetProfile(ctx context.Context, acting *domain.User, targetID string) (*domain.User, error) {
	return s.getProfileFn(ctx, acting, targetID)
}

func (s *stubUserService) ListUsers(ctx context.Context, acting *domain.User) ([]*domain.User, error) {
	return s.listUsersFn(ctx, acting)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, acting *domain.User, targetID string, input ports.ProfileUpdateInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, acting, targetID, input)
}

func (s *stubUserService) Impersonate(ctx context.Context, acting *domain.User, targetID string) (*domain.Token, *domain.User, error) {
	return s.impersonateFn(ctx, acting, targetID)
}

func (s *stubUserService) SetProfilePicture(ctx context.Context, acting *domain.User, filename, pictureURL string) (*domain.User, error) {
	return s.setPictureFn(ctx, acting, filename, pictureURL)
}

func (s *stubUserService) DeleteAccount(ctx context.Context, acting *domain.User) error {
	return s.deleteAccountFn(ctx, acting)
}

func TestUserHandler_Me(t *testing.T) {
	alice := &domain.User{ID: "u1", Email: "alice@example.com", Name: "Alice", Role: domain.RoleUser}
	stub := &stubUserService{
		getProfileFn: func(ctx context.Context, acting *domain.User, targetID string) (*domain.User, error) {
			if acting.ID != "u1" || targetID != "u1" {
				t.Fatalf("expected self-lookup, got acting=%s target=%s", acting.ID, targetID)
			}
			return alice, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/user", "")
	c.Set(middleware.ContextKeyUser, alice)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
	if _, leaked := resp["PasswordHash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestUserHandler_List_ForbiddenPropagates(t *testing.T) {
	stub := &stubUserService{
		listUsersFn: func(ctx context.Context, acting *domain.User) ([]*domain.User, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/users", "")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "u1", Role: domain.RoleUser})

	if err := h.List(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	stub := &stubUserService{
		updateProfileFn: func(ctx context.Context, acting *domain.User, targetID string, input ports.ProfileUpdateInput) (*domain.User, error) {
			if targetID != "u2" {
				t.Fatalf("unexpected target: %s", targetID)
			}
			if input.Name == nil || *input.Name != "New Name" {
				t.Fatalf("name not forwarded: %+v", input)
			}
			if input.Role == nil || *input.Role != domain.RoleStaff {
				t.Fatalf("role not forwarded: %+v", input)
			}
			return &domain.User{ID: targetID, Name: *input.Name, Role: *input.Role}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/user/u2/update",
		`{"name":"New Name","role":"staff"}`)
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "admin", Role: domain.RoleAdmin})

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_InvalidRoleValue(t *testing.T) {
	h := NewUserHandler(&stubUserService{
		updateProfileFn: func(ctx context.Context, acting *domain.User, targetID string, input ports.ProfileUpdateInput) (*domain.User, error) {
			t.Fatalf("service must not be called for invalid role value")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPost, "/user/u2/update", `{"role":"superuser"}`)
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "admin", Role: domain.RoleAdmin})

	if err := h.Update(c); err == nil {
		t.Fatalf("expected validation error for unknown role")
	}
}

func TestUserHandler_Impersonate(t *testing.T) {
	stub := &stubUserService{
		impersonateFn: func(ctx context.Context, acting *domain.User, targetID string) (*domain.Token, *domain.User, error) {
			return &domain.Token{Value: "imp-token"}, &domain.User{ID: targetID, Email: "bob@example.com"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/admin/impersonate/u2", "")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "admin", Role: domain.RoleAdmin})

	if err := h.Impersonate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "imp-token" {
		t.Fatalf("missing impersonation token: %+v", resp)
	}
}

func TestUserHandler_Impersonate_UnknownTarget(t *testing.T) {
	stub := &stubUserService{
		impersonateFn: func(ctx context.Context, acting *domain.User, targetID string) (*domain.Token, *domain.User, error) {
			return nil, nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/admin/impersonate/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "admin", Role: domain.RoleAdmin})

	if err := h.Impersonate(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_DeleteAccount(t *testing.T) {
	deleted := ""
	stub := &stubUserService{
		deleteAccountFn: func(ctx context.Context, acting *domain.User) error {
			deleted = acting.ID
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/delete-account", "")
	c.Set(middleware.ContextKeyUser, &domain.User{ID: "u1", Role: domain.RoleUser})

	if err := h.DeleteAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "u1" {
		t.Fatalf("expected own account deleted, got %q", deleted)
	}
}
