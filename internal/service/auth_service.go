package service

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo     domain.UserRepository
	issuer       *TokenIssuer
	passwordCost int
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, issuer *TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		issuer:       issuer,
		passwordCost: bcrypt.DefaultCost,
	}
}

// AuthResult is a user together with a freshly issued token
type AuthResult struct {
	User  *domain.User
	Token string
}

// Register creates an account and signs the new user in
func (s *AuthService) Register(name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", domain.ErrNameRequired.Error())
	}
	if len(name) > domain.MaxUserNameLength {
		return nil, domain.NewValidationError("name", "name exceeds maximum length")
	}

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if len(password) < domain.MinPasswordLength {
		return nil, domain.NewValidationError("password", "password must be at least 6 characters")
	}

	_, err = s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, domain.ErrAlreadyExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		log.Error().Err(err).Msg("Failed to look up user by email")
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(&domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
// Unknown email and wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debug().Str("user_id", user.ID.String()).Msg("Password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.NewValidationError("email", domain.ErrEmailRequired.Error())
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", "email is not a valid address")
	}
	return email, nil
}
