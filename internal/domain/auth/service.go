package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
	"docengine/internal/core/tenant"
	"docengine/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength int
	BcryptCost        int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength: 8,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// Service registers operators and issues tokens.
type Service struct {
	users      UserRepository
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(users UserRepository, jwtService *JWTService, config ServiceConfig) *Service {
	return &Service{users: users, jwtService: jwtService, config: config}
}

// Register creates an operator account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.validate(s.config.PasswordMinLength); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Email, string(passwordHash))
	user.FullName = req.FullName

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (Token, *User, error) {
	invalid := apperror.NewAuthRequired("invalid credentials")

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(creds.Email))
	if err != nil {
		if apperror.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return Token{}, nil, invalid
		}
		return Token{}, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		logger.Debug(ctx, "login rejected", "user_id", user.ID)
		return Token{}, nil, invalid
	}
	if err := user.CanLogin(); err != nil {
		return Token{}, nil, err
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return Token{}, nil, err
	}

	user.RecordSuccessfulLogin()
	if err := s.users.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login", "user_id", user.ID, "error", err)
	}

	return token, user, nil
}

// Me returns the operator bound to ctx.
func (s *Service) Me(ctx context.Context) (*User, error) {
	owner, err := tenant.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, owner)
	if apperror.IsNotFound(err) {
		return nil, apperror.NewAuthRequired("account no longer exists")
	}
	return user, err
}

// Authenticate validates a bearer token and returns the operator id.
func (s *Service) Authenticate(token string) (id.ID, string, error) {
	uc, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return id.Nil(), "", apperror.NewAuthRequired("invalid or expired token").WithCause(err)
	}
	owner, err := id.Parse(uc.UserID)
	if err != nil {
		return id.Nil(), "", apperror.NewAuthRequired("invalid token subject")
	}
	return owner, uc.Email, nil
}

// dummyHash is compared against when the account does not exist.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("docengine-placeholder"), bcrypt.MinCost)
