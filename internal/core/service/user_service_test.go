package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/barracks/account-service/internal/core/domain"
	"github.com/barracks/account-service/internal/core/ports"
)

type userFixture struct {
	svc    *UserService
	issuer *TokenService
	users  *stubUserRepo
}

func newUserFixture() *userFixture {
	users := newStubUserRepo()
	issuer := NewTokenService(newStubTokenRepo(), users, time.Hour, zerolog.Nop())
	return &userFixture{
		svc:    NewUserService(users, issuer, zerolog.Nop()),
		issuer: issuer,
		users:  users,
	}
}

func (f *userFixture) addUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		Email: email,
		Name:  "Someone",
		Role:  role,
	})
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	return u
}

func strPtr(s string) *string { return &s }

func TestUserService_GetProfile_OwnAndForeign(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)
	bob := f.addUser(t, "bob@example.com", domain.RoleUser)
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)

	if _, err := f.svc.GetProfile(context.Background(), alice, alice.ID); err != nil {
		t.Fatalf("own profile read failed: %v", err)
	}
	if _, err := f.svc.GetProfile(context.Background(), alice, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden reading foreign profile, got %v", err)
	}
	if _, err := f.svc.GetProfile(context.Background(), admin, bob.ID); err != nil {
		t.Fatalf("admin read of any profile failed: %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)
	staff := f.addUser(t, "staff@example.com", domain.RoleStaff)
	f.addUser(t, "carol@example.com", domain.RoleUser)

	if _, err := f.svc.ListUsers(context.Background(), alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain user, got %v", err)
	}

	users, err := f.svc.ListUsers(context.Background(), staff)
	if err != nil {
		t.Fatalf("staff listing failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestUserService_UpdateProfile_OwnerAllowList(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)

	updated, err := f.svc.UpdateProfile(context.Background(), alice, alice.ID, ports.ProfileUpdateInput{
		Name:  strPtr("Alice Cooper"),
		Phone: strPtr("555-0199"),
	})
	if err != nil {
		t.Fatalf("own update failed: %v", err)
	}
	if updated.Name != "Alice Cooper" || updated.Phone != "555-0199" {
		t.Fatalf("fields not applied: %+v", updated)
	}
}

func TestUserService_UpdateProfile_ForeignDenied(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)
	bob := f.addUser(t, "bob@example.com", domain.RoleUser)

	if _, err := f.svc.UpdateProfile(context.Background(), alice, bob.ID, ports.ProfileUpdateInput{
		Name: strPtr("Hacked"),
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	stored, _ := f.users.FindByID(context.Background(), bob.ID)
	if stored.Name == "Hacked" {
		t.Fatalf("denied update still wrote fields")
	}
}

func TestUserService_UpdateProfile_RoleEscalationDenied(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)

	role := domain.RoleAdmin
	if _, err := f.svc.UpdateProfile(context.Background(), alice, alice.ID, ports.ProfileUpdateInput{
		Role: &role,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-promotion, got %v", err)
	}

	stored, _ := f.users.FindByID(context.Background(), alice.ID)
	if stored.Role != domain.RoleUser {
		t.Fatalf("role escalated to %q", stored.Role)
	}
}

func TestUserService_UpdateProfile_AdminSetsRole(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)
	bob := f.addUser(t, "bob@example.com", domain.RoleUser)

	role := domain.RoleStaff
	updated, err := f.svc.UpdateProfile(context.Background(), admin, bob.ID, ports.ProfileUpdateInput{
		Role: &role,
	})
	if err != nil {
		t.Fatalf("admin role update failed: %v", err)
	}
	if updated.Role != domain.RoleStaff {
		t.Fatalf("expected staff role, got %q", updated.Role)
	}
}

func TestUserService_UpdateProfile_InvalidRoleRejected(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)
	bob := f.addUser(t, "bob@example.com", domain.RoleUser)

	role := domain.Role("superuser")
	if _, err := f.svc.UpdateProfile(context.Background(), admin, bob.ID, ports.ProfileUpdateInput{
		Role: &role,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected rejection of unknown role, got %v", err)
	}
}

func TestUserService_Impersonate(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)
	bob := f.addUser(t, "bob@example.com", domain.RoleUser)
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)

	if _, _, err := f.svc.Impersonate(context.Background(), alice, bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain user, got %v", err)
	}

	token, target, err := f.svc.Impersonate(context.Background(), admin, bob.ID)
	if err != nil {
		t.Fatalf("admin impersonation failed: %v", err)
	}
	if target.ID != bob.ID {
		t.Fatalf("impersonated wrong user: %s", target.ID)
	}

	// The issued token authenticates as the target, not the admin.
	resolved, err := f.issuer.Validate(context.Background(), token.Value)
	if err != nil {
		t.Fatalf("impersonation token invalid: %v", err)
	}
	if resolved.ID != bob.ID {
		t.Fatalf("token resolves to %s, expected %s", resolved.ID, bob.ID)
	}
}

func TestUserService_Impersonate_UnknownTarget(t *testing.T) {
	f := newUserFixture()
	admin := f.addUser(t, "admin@example.com", domain.RoleAdmin)

	if _, _, err := f.svc.Impersonate(context.Background(), admin, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_SetProfilePicture_SanitizesFilename(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)

	updated, err := f.svc.SetProfilePicture(context.Background(), alice, "../../etc/passwd", "")
	if err != nil {
		t.Fatalf("SetProfilePicture returned error: %v", err)
	}
	if updated.ProfilePic != "/media/profiles/passwd" {
		t.Fatalf("traversal survived sanitization: %q", updated.ProfilePic)
	}

	updated, err = f.svc.SetProfilePicture(context.Background(), alice, "..", "")
	if err != nil {
		t.Fatalf("SetProfilePicture returned error: %v", err)
	}
	if updated.ProfilePic != "/media/profiles/profile.jpg" {
		t.Fatalf("expected fallback filename, got %q", updated.ProfilePic)
	}
}

func TestUserService_DeleteAccount(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser(t, "alice@example.com", domain.RoleUser)

	token, err := f.issuer.Issue(context.Background(), alice)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := f.svc.DeleteAccount(context.Background(), alice); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}

	if _, err := f.users.FindByID(context.Background(), alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("identity still present after deletion")
	}
	if _, err := f.issuer.Validate(context.Background(), token.Value); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("session survived account deletion")
	}
}
