package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/essay-api/internal/dto"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
)

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("user already exists")

// ErrInvalidCredentials is returned for unknown emails, password mismatches,
// and failed security answers alike, so callers cannot probe for accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound indicates the principal no longer exists.
var ErrUserNotFound = errors.New("user not found")

// ErrStudentsOnly indicates the operation is restricted to student accounts.
var ErrStudentsOnly = errors.New("only students can perform this action")

// AuthService manages accounts, sessions, and credential recovery.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateOwnSection(ctx context.Context, userID uint, section string) (dto.UserResponse, error)
	SecurityQuestion(ctx context.Context, email string) (dto.SecurityQuestionResponse, error)
	ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error
}

type authService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, students repository.StudentRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	return &authService{
		users:     users,
		students:  students,
		validator: validate,
		secret:    secret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	answerHash := ""
	if payload.SecurityAnswer != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(normalizeSecurityAnswer(payload.SecurityAnswer)), bcrypt.DefaultCost)
		if err != nil {
			return dto.UserResponse{}, fmt.Errorf("hash security answer: %w", err)
		}
		answerHash = string(hashed)
	}

	role := payload.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		Email:              payload.Email,
		PasswordHash:       string(passwordHash),
		Role:               role,
		Section:            strings.TrimSpace(payload.Section),
		SecurityQuestion:   payload.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrEmailTaken
		}
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return dto.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateOwnSection(ctx context.Context, userID uint, section string) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if user.Role != models.RoleStudent {
		return dto.UserResponse{}, ErrStudentsOnly
	}

	user.Section = strings.TrimSpace(section)
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	// Keep the roster projection in sync; a missing projection is fine, it is
	// created lazily on first submission.
	student, err := s.students.GetByEmail(ctx, user.Email)
	if err == nil && student.Section != user.Section {
		student.Section = user.Section
		if err := s.students.Update(ctx, &student); err != nil {
			return dto.UserResponse{}, err
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("section", user.Section).Msg("section updated")

	return dto.NewUserResponse(user), nil
}

func (s *authService) SecurityQuestion(ctx context.Context, email string) (dto.SecurityQuestionResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Uniform shape for unknown accounts; no enumeration.
			return dto.SecurityQuestionResponse{HasSecurityQuestion: false}, nil
		}
		return dto.SecurityQuestionResponse{}, err
	}

	if user.SecurityQuestion == "" {
		return dto.SecurityQuestionResponse{HasSecurityQuestion: false}, nil
	}

	return dto.SecurityQuestionResponse{
		HasSecurityQuestion: true,
		SecurityQuestion:    user.SecurityQuestion,
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if user.SecurityQuestion == "" || user.SecurityAnswerHash == "" {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SecurityAnswerHash), []byte(normalizeSecurityAnswer(payload.SecurityAnswer))); err != nil {
		s.logger.Warn().Str("email", payload.Email).Msg("incorrect security answer")
		return ErrInvalidCredentials
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(passwordHash)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password reset via security question")

	return nil
}

func (s *authService) issueToken(user models.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt.Unix(), nil
}

func normalizeSecurityAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
