package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bishalghimire/merotopup-backend/internal/types/user"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrUserNotFound = errors.New("user not found")
)

type Service struct {
	repo      UserRepository
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewService(repo UserRepository, jwtSecret []byte, jwtTTL time.Duration) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Lookup tells the chat flow whether an email belongs to a known customer,
// deciding between the login and registration branches. Unknown email is not
// an error here.
func (s *Service) Lookup(ctx context.Context, email string) (*user.User, error) {
	return s.repo.FindUserByEmail(ctx, email)
}

func (s *Service) Register(ctx context.Context, email, username, password string) (*user.User, string, error) {
	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrUserExists
	}
	u := &user.User{
		Email:    strings.TrimSpace(email),
		Username: strings.TrimSpace(username),
		Password: password,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.token(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate compares the stored password as-is; the store keeps it in the
// clear and hardening that is out of scope for this service.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || u.Password != password {
		return nil, "", ErrInvalidCreds
	}
	token, err := s.token(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Get resolves a session subject back to its user record.
func (s *Service) Get(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) token(u *user.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   u.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
