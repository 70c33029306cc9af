package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/pkg/apperrors"
	"github.com/yigit/examprep/internal/pkg/auth"
	"github.com/yigit/examprep/internal/pkg/validation"
)

// AuthResult is a successful registration or login
type AuthResult struct {
	Student   *models.Student
	Token     string
	ExpiresAt time.Time
}

// AuthService defines the interface for account credential operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	ChangePassword(ctx context.Context, studentID string, req *dto.ChangePasswordRequest) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	studentRepo repositories.StudentRepository
	hasher      *auth.PasswordHasher
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	studentRepo repositories.StudentRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		studentRepo: studentRepo,
		hasher:      hasher,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates a student account and signs a session token for it
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	if err := validation.Struct(req); err != nil {
		if validation.Failed(err, "email") && !validation.Failed(err, "required") {
			return nil, apperrors.ErrInvalidEmail
		}
		return nil, apperrors.ErrAllFieldsRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	student := &models.Student{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			s.logger.Warn().Str("email", req.Email).Str("username", req.Username).Msg("Registration rejected, email or username taken")
			return nil, apperrors.ErrStudentExists
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	token, expiresAt, err := s.jwtService.GenerateToken(student)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("studentID", student.ID.Hex()).Msg("Student registered")
	return &AuthResult{Student: student, Token: token, ExpiresAt: expiresAt}, nil
}

// Login verifies credentials and signs a session token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, apperrors.ErrCredentialsRequired
	}

	student, err := s.studentRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error finding student: %w", err)
	}

	if !s.hasher.Check(student.PasswordHash, req.Password) {
		return nil, apperrors.ErrWrongPassword
	}

	token, expiresAt, err := s.jwtService.GenerateToken(student)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &AuthResult{Student: student, Token: token, ExpiresAt: expiresAt}, nil
}

// ChangePassword replaces the password after verifying the old one. Input
// rules are checked before the store is touched.
func (s *authServiceImpl) ChangePassword(ctx context.Context, studentID string, req *dto.ChangePasswordRequest) error {
	id, ok := models.ParseID(studentID)
	if !ok {
		return apperrors.ErrInvalidStudentID
	}
	if len(req.NewPassword) < validation.PasswordMinLength {
		return apperrors.ErrPasswordTooShort
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return apperrors.ErrPasswordsMismatch
	}

	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error finding student: %w", err)
	}

	if !s.hasher.Check(student.PasswordHash, req.OldPassword) {
		return apperrors.ErrWrongOldPassword
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	res, err := s.studentRepo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if !res.Modified {
		return fmt.Errorf("student %s: %w", studentID, apperrors.ErrPasswordNotModified)
	}

	s.logger.Info().Str("studentID", studentID).Msg("Password updated")
	return nil
}
