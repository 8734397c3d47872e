package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"medicart/internal/domain"
	"medicart/internal/repository"
)

const minPasswordLen = 6

// Claims is the JWT payload issued on login
type Claims struct {
	UserID uint        `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles accounts, passwords and bearer tokens
type AuthService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// Register creates a customer account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, domain.RoleCustomer)
}

// CreateStaff lets an admin add pharmacist or admin accounts
func (s *AuthService) CreateStaff(ctx context.Context, caller *domain.User, in RegisterInput, role domain.Role) (*domain.User, error) {
	if caller == nil || caller.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if !role.IsStaff() {
		return nil, invalid("role must be admin or pharmacist")
	}
	return s.createUser(ctx, in, role)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, invalid("name and a valid email are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, invalid(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  in.Address,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and returns a signed token for the user
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token to the stored user. The role is read
// from the database, not from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return u, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
