package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/owasp-zof/tabletop-portal/internal/repos"
)

func newTestAuthService(t *testing.T) (AuthService, UserService) {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)
	userRepo := repos.NewUserRepo(db, log)
	userTokenRepo := repos.NewUserTokenRepo(db, log)
	auth := NewAuthService(db, log, userRepo, userTokenRepo, "test-secret", time.Hour, 24*time.Hour)
	return auth, NewUserService(log, userRepo)
}

func TestRegisterAndLogin(t *testing.T) {
	auth, users := newTestAuthService(t)

	user, err := auth.Register(context.Background(), RegisterInput{
		Email:     "  Facilitator@Example.COM ",
		Password:  "correct-horse",
		FirstName: "Pat",
		LastName:  "Facilitator",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "facilitator@example.com" {
		t.Fatalf("email not normalized: got=%q", user.Email)
	}
	if user.Password == "correct-horse" {
		t.Fatalf("password stored in plaintext")
	}

	pair, err := auth.Login(context.Background(), "facilitator@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("login returned empty tokens")
	}

	userID, err := auth.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("token subject: want=%s got=%s", user.ID, userID)
	}
	loaded, err := users.GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Email != user.Email {
		t.Fatalf("loaded wrong user: got=%q", loaded.Email)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	input := RegisterInput{Email: "pat@example.com", Password: "correct-horse", FirstName: "Pat", LastName: "F"}
	if _, err := auth.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := auth.Register(context.Background(), input)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate Register: want ErrEmailTaken got %v", err)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	if _, err := auth.Register(context.Background(), RegisterInput{
		Email: "pat@example.com", Password: "correct-horse", FirstName: "Pat", LastName: "F",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := auth.Login(context.Background(), "pat@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: want ErrInvalidCredentials got %v", err)
	}
	if _, err := auth.Login(context.Background(), "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	if _, err := auth.Register(context.Background(), RegisterInput{
		Email: "pat@example.com", Password: "correct-horse", FirstName: "Pat", LastName: "F",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := auth.Login(context.Background(), "pat@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	next, err := auth.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}
	// The old refresh token is single use.
	if _, err := auth.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("replayed refresh: want ErrInvalidToken got %v", err)
	}
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	auth, _ := newTestAuthService(t)
	if _, err := auth.Register(context.Background(), RegisterInput{
		Email: "pat@example.com", Password: "correct-horse", FirstName: "Pat", LastName: "F",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	pair, err := auth.Login(context.Background(), "pat@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := auth.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout: want ErrInvalidToken got %v", err)
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	auth, _ := newTestAuthService(t)
	if _, err := auth.ParseAccessToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: want ErrInvalidToken got %v", err)
	}
}
