package user

import (
	"context"
	"errors"

	"github.com/arin-r/splitlyx/internal/auth"
)

// Common errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
)

// Service handles user business logic
type Service struct {
	repo *Repository
	jwt  *auth.JWTManager
}

// NewService creates a new user service
func NewService(repo *Repository, jwt *auth.JWTManager) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// Register creates an account with a hashed password
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req.Username, req.Email, hash)
}

// Login verifies credentials and issues a session token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (string, *User, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, auth.ErrInvalidCredentials
	}

	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return "", nil, err
	}

	token, err := s.jwt.Generate(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List retrieves users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}
