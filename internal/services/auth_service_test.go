package services

import (
	"errors"
	"testing"

	"projectzen/internal/models"
)

func TestSignupThenLogin_RoundTrip(t *testing.T) {
	e := newEnv(t)

	created, err := e.authService.Signup("A", "a@x.com", "correctPassword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Role != models.RoleTeamMember {
		t.Fatalf("signup role = %q, want Team Member", created.Role)
	}

	logged, err := e.authService.Login("a@x.com", "correctPassword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logged.ID != created.ID {
		t.Fatalf("login returned %q, want %q", logged.ID, created.ID)
	}
}

func TestLogin_CaseInsensitiveEmailExactPassword(t *testing.T) {
	e := newEnv(t)
	if _, err := e.authService.Signup("A", "User@X.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := e.authService.Login("user@x.COM", "pw"); err != nil {
		t.Fatalf("email match must ignore case: %v", err)
	}
	// пароль сравнивается точно
	if _, err := e.authService.Login("user@x.com", "PW"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := e.authService.Login("nobody@x.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	if _, err := e.authService.Signup("A", "a@x.com", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.authService.Signup("B", "A@X.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestLogout_ClearsNotifications(t *testing.T) {
	e := newEnv(t)
	user, err := e.authService.Signup("A", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.notifications.Add(models.Notification{UserID: user.ID, Message: "hello"}, false)

	if err := e.authService.Logout(user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ns := e.mustNotifications(t, user.ID); len(ns) != 0 {
		t.Fatalf("logout must clear notifications, got %d", len(ns))
	}
}

func TestUpdateUserRole_ReflectedOnNextLookup(t *testing.T) {
	e := newEnv(t)
	user, err := e.authService.Signup("A", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := e.userService.UpdateUserRole(user.ID, models.RoleManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != models.RoleManager {
		t.Fatalf("role = %q, want Manager", updated.Role)
	}

	// сессия при восстановлении читает живую коллекцию
	live, err := e.userService.GetUserByID(user.ID)
	if err != nil || live == nil {
		t.Fatalf("lookup: %v", err)
	}
	if live.Role != models.RoleManager {
		t.Fatalf("live role = %q, want Manager", live.Role)
	}

	if _, err := e.userService.UpdateUserRole(user.ID, "Duke"); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
}
