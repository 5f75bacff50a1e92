package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegister(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeUserRepo{store})
	ctx := context.Background()

	input := RegisterInput{
		FullName: " John Doe ",
		Username: "johndoe",
		Email:    "john@example.com",
		Password: "correct horse",
	}

	user, err := svc.Register(ctx, input)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.FullName != "John Doe" || user.Username != "johndoe" {
		t.Errorf("user = %q/%q, want trimmed John Doe/johndoe", user.FullName, user.Username)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in the register response")
	}
	// The stored row keeps a real hash, never the raw password.
	stored := store.users[user.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == input.Password {
		t.Error("stored password hash is missing or not hashed")
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "johndoe", Email: "other@example.com", Password: "correct horse"}); !errors.Is(err, ErrUserUsernameConflict) {
		t.Fatalf("duplicate username error = %v, want ErrUserUsernameConflict", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "other", Email: "john@example.com", Password: "correct horse"}); !errors.Is(err, ErrUserEmailConflict) {
		t.Fatalf("duplicate email error = %v, want ErrUserEmailConflict", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{newFakeStore()})

	_, err := svc.Register(context.Background(), RegisterInput{Username: "johndoe", Email: "john@example.com", Password: "short"})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("Register error = %v, want ErrPasswordTooShort", err)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeUserRepo{store})
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "johndoe", Email: "john@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Login(ctx, LoginInput{Username: "johndoe", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "johndoe" {
		t.Errorf("username = %q, want johndoe", user.Username)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in the login response")
	}

	if _, err := svc.Login(ctx, LoginInput{Username: "johndoe", Password: "wrong horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	// Unknown usernames get the same error as bad passwords.
	if _, err := svc.Login(ctx, LoginInput{Username: "nobody", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}
