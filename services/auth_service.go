package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/RevInsanity/temu-clone/apperrors"
	"github.com/RevInsanity/temu-clone/models"
	"github.com/RevInsanity/temu-clone/repository"
)

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Age      int    `json:"age" binding:"omitempty,gte=0"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account. Every self-registered account gets the
// user role; admins are provisioned out of band.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return nil, apperrors.ErrValidation
	}

	// Duplicate check before insert gives the friendlier error; the unique
	// index still backs it against races.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		Age:      req.Age,
		Role:     models.RoleUser,
		Address:  req.Address,
		Phone:    req.Phone,
		Cart:     []models.CartLine{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	zap.L().Info("User registered", zap.String("email", user.Email))
	return user, nil
}

// Login checks the credentials and issues a signed session token. Unknown
// email and wrong password fail identically so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternal, err)
	}

	if !CheckPassword(user.Password, password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternal, err)
	}

	zap.L().Info("User logged in", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, token, nil
}
