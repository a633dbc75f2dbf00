package user

import (
	"context"
	"errors"

	"examprep/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, *auth.TokenPair, error)
	Login(ctx context.Context, req LoginRequest) (*User, *auth.TokenPair, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// Register always creates a student; admins are provisioned out of band.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, *auth.TokenPair, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	u, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, auth.RoleStudent)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := auth.IssueTokens(u.Identity(), s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	return u, tokens, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, *auth.TokenPair, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := auth.IssueTokens(u.Identity(), s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	return u, tokens, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	access, claims, err := auth.Refresh(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	return access, u, nil
}
