package services

import (
	"testing"

	"recipe-share-system/models"
	"recipe-share-system/utils"
)

func newAuthStack(t *testing.T) *AuthService {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	db, tracker := newTestStack(t)
	return NewAuthService(db, tracker)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthStack(t)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatal("password stored in plaintext")
	}

	result, err := svc.Login("alice@example.com", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Error("no token issued")
	}
	if result.DailyLogin == nil || !result.DailyLogin.Performed {
		t.Errorf("daily login = %+v, want performed", result.DailyLogin)
	}
	if result.User.XP != 5 {
		t.Errorf("XP after first login = %d, want 5", result.User.XP)
	}

	parsed, err := utils.ParseToken(result.Token)
	if err != nil {
		t.Fatal(err)
	}
	if parsed != user.ID {
		t.Errorf("token subject = %q, want %q", parsed, user.ID)
	}
}

func TestLogin_SecondSameDay(t *testing.T) {
	svc := newAuthStack(t)

	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "correct-horse"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login("a@example.com", "correct-horse"); err != nil {
		t.Fatal(err)
	}
	again, err := svc.Login("a@example.com", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	if again.DailyLogin.Performed {
		t.Error("second login on the same day awarded XP")
	}
	if again.User.XP != 5 {
		t.Errorf("XP after second login = %d, want 5", again.User.XP)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthStack(t)

	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "correct-horse"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login("a@example.com", "wrong"); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newAuthStack(t)

	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "correct-horse"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "b@example.com", Password: "correct-horse"}); err == nil {
		t.Fatal("expected error for duplicate username")
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newAuthStack(t)

	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"}); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestRegister_InactiveCannotLogin(t *testing.T) {
	svc := newAuthStack(t)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "a@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatal(err)
	}
	svc.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if _, err := svc.Login("a@example.com", "correct-horse"); err == nil {
		t.Fatal("expected error for inactive account")
	}
}
