package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
)

type fakeUserRepo struct {
	users map[id.ID]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[id.ID]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuthService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService, DefaultServiceConfig()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	user, err := service.Register(ctx, "staff@shop.test", "Staff", "password123", RoleStaff)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	session, err := service.Login(ctx, Credentials{Email: "staff@shop.test", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.AccessToken == "" {
		t.Error("session should carry an access token")
	}
	if session.User.LastLoginAt == nil {
		t.Error("successful login should set last login time")
	}
}

func TestRegister_Validation(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "staff@shop.test", "Staff", "short", RoleStaff); err == nil {
		t.Error("short password should fail")
	}

	if _, err := service.Register(ctx, "staff@shop.test", "Staff", "password123", RoleStaff); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := service.Register(ctx, "STAFF@shop.test", "Other", "password123", RoleStaff); err == nil {
		t.Error("duplicate email should fail")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "staff@shop.test", "Staff", "password123", RoleStaff); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := service.Login(ctx, Credentials{Email: "staff@shop.test", Password: "wrong"})
	if err == nil {
		t.Fatal("expected login failure")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Errorf("error = %v, want unauthorized", err)
	}
}

func TestLogin_UnknownEmailGivesGenericError(t *testing.T) {
	service, _ := newTestAuthService()

	_, err := service.Login(context.Background(), Credentials{Email: "nobody@shop.test", Password: "password123"})
	if err == nil {
		t.Fatal("expected login failure")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeUnauthorized {
		t.Errorf("error = %v, want unauthorized (no user enumeration)", err)
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	service, repo := newTestAuthService()
	ctx := context.Background()

	user, err := service.Register(ctx, "staff@shop.test", "Staff", "password123", RoleStaff)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for i := 0; i < service.config.MaxLoginAttempts; i++ {
		if _, err := service.Login(ctx, Credentials{Email: "staff@shop.test", Password: "wrong"}); err == nil {
			t.Fatal("expected login failure")
		}
	}

	if !repo.users[user.ID].IsLocked() {
		t.Fatal("account should be locked after repeated failures")
	}

	// Even the right password is rejected while locked.
	if _, err := service.Login(ctx, Credentials{Email: "staff@shop.test", Password: "password123"}); err == nil {
		t.Error("login on locked account should fail")
	}
}

func TestChangePassword(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	user, err := service.Register(ctx, "staff@shop.test", "Staff", "password123", RoleStaff)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := service.ChangePassword(ctx, user.ID, "wrong", "newpassword1"); err == nil {
		t.Error("wrong old password should fail")
	}
	if err := service.ChangePassword(ctx, user.ID, "password123", "short"); err == nil {
		t.Error("short new password should fail")
	}
	if err := service.ChangePassword(ctx, user.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := service.Login(ctx, Credentials{Email: "staff@shop.test", Password: "newpassword1"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := service.Login(ctx, Credentials{Email: "staff@shop.test", Password: "password123"}); err == nil {
		t.Error("login with old password should fail")
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("admin@shop.test", "Admin", "hash", RoleAdmin)

	token, expiresAt, err := jwtService.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("token should expire in the future")
	}

	uc, err := jwtService.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if uc.UserID != user.ID.String() {
		t.Errorf("user id = %s, want %s", uc.UserID, user.ID)
	}
	if uc.Email != "admin@shop.test" || uc.Role != string(RoleAdmin) || !uc.IsAdmin {
		t.Errorf("claims mismatch: %+v", uc)
	}
}

func TestJWT_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	validator := NewJWTService(DefaultJWTConfig("secret-b"))
	user := NewUser("admin@shop.test", "Admin", "hash", RoleAdmin)

	token, _, err := issuer.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := validator.ValidateToken(token); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}
