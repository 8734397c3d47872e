package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medicart/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	u, err := env.auth.Register(ctx, RegisterInput{Name: "Rahim", Email: " Rahim@Example.com ", Password: "secret1", Phone: "+880"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleCustomer || u.Email != "rahim@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Password == "secret1" {
		t.Fatalf("password stored in clear text")
	}

	_, err = env.auth.Register(ctx, RegisterInput{Name: "Other", Email: "rahim@example.com", Password: "secret2", Phone: "1"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	if _, _, err := env.auth.Login(ctx, "rahim@example.com", "wrong!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := env.auth.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	token, logged, err := env.auth.Login(ctx, "RAHIM@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("logged in as wrong user")
	}

	me, err := env.auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if me.ID != u.ID {
		t.Fatalf("token resolved to wrong user")
	}
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	cases := []RegisterInput{
		{Name: "", Email: "a@b.c", Password: "secret1"},
		{Name: "A", Email: "not-an-email", Password: "secret1"},
		{Name: "A", Email: "a@b.c", Password: "short"},
	}
	for _, in := range cases {
		if _, err := env.auth.Register(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	u := env.user(t, "c@x.io", domain.RoleCustomer)

	if _, err := env.auth.Authenticate(ctx, "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage: expected unauthorized, got %v", err)
	}

	// signed with another secret
	foreign := NewAuthService(env.users, "other-secret", time.Hour)
	tok, _ := foreign.IssueToken(u)
	if _, err := env.auth.Authenticate(ctx, tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("foreign secret: expected unauthorized, got %v", err)
	}

	// expired
	expired := NewAuthService(env.users, "test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _ = expired.IssueToken(u)
	if _, err := env.auth.Authenticate(ctx, tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired: expected unauthorized, got %v", err)
	}

	// unsigned
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: u.ID}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := env.auth.Authenticate(ctx, none); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("alg none: expected unauthorized, got %v", err)
	}

	// user removed after the token was issued
	tok, _ = env.auth.IssueToken(&domain.User{ID: 4242, Role: domain.RoleAdmin})
	if _, err := env.auth.Authenticate(ctx, tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("missing user: expected unauthorized, got %v", err)
	}
}

func TestCreateStaff(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	admin := env.user(t, "a@x.io", domain.RoleAdmin)
	customer := env.user(t, "c@x.io", domain.RoleCustomer)
	in := RegisterInput{Name: "Pharma", Email: "p@x.io", Password: "secret1", Phone: "1"}

	if _, err := env.auth.CreateStaff(ctx, customer, in, domain.RolePharmacist); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := env.auth.CreateStaff(ctx, admin, in, domain.RoleCustomer); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	u, err := env.auth.CreateStaff(ctx, admin, in, domain.RolePharmacist)
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if u.Role != domain.RolePharmacist {
		t.Fatalf("unexpected role %s", u.Role)
	}
}
