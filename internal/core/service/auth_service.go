package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(success bool)
}

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo       ports.UserRepository
	tokens     *TokenManager
	bcryptCost int
	logins     LoginRecorder
	logger     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenManager, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

// WithLoginRecorder attaches a login counter.
func (s *AuthService) WithLoginRecorder(r LoginRecorder) *AuthService {
	s.logins = r
	return s
}

// Register creates a customer account and returns its ID.
func (s *AuthService) Register(ctx context.Context, fullName, username, password string) (int64, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)

	if err := validateRegistration(fullName, username, password); err != nil {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return 0, err
	}

	user := &domain.User{
		FullName:     fullName,
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return 0, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user.ID, nil
}

// maxPasswordBytes is the most bcrypt will hash. Multibyte characters count
// once per byte.
const maxPasswordBytes = 72

func validateRegistration(fullName, username, password string) error {
	if fullName == "" || username == "" || password == "" {
		return domain.NewValidationError("Semua field harus diisi")
	}
	if utf8.RuneCountInString(fullName) < 3 {
		return domain.NewValidationError("Nama lengkap minimal 3 karakter")
	}
	if len(username) < 4 {
		return domain.NewValidationError("Username minimal 4 karakter")
	}
	if !usernamePattern.MatchString(username) {
		return domain.NewValidationError("Username hanya boleh berisi huruf, angka, dan underscore")
	}
	if len(password) < 6 {
		return domain.NewValidationError("Password minimal 6 karakter")
	}
	if len(password) > maxPasswordBytes {
		return domain.NewValidationError("Password maksimal %d byte", maxPasswordBytes)
	}
	return nil
}

// Login checks the credentials and returns a signed token with the user.
// Unknown usernames and wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.NewValidationError("Username dan password harus diisi")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.recordLogin(false)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordLogin(false)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.recordLogin(true)
	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return token, user, nil
}

// Profile returns the account behind the actor.
func (s *AuthService) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.repo.FindByID(ctx, actor.ID)
}

func (s *AuthService) recordLogin(success bool) {
	if s.logins != nil {
		s.logins.RecordLogin(success)
	}
}
