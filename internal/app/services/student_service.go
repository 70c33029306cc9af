package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/pkg/apperrors"
	"github.com/yigit/examprep/internal/pkg/validation"
)

// StudentService defines the interface for student profile operations
type StudentService interface {
	GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, studentID string, req *dto.UpdateProfileRequest) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentRepo repositories.StudentRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repositories.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// GetProfile returns the student's profile without credentials
func (s *studentServiceImpl) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	id, ok := models.ParseID(studentID)
	if !ok {
		return nil, apperrors.ErrInvalidStudentID
	}

	profile, err := s.studentRepo.FindProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies a sparse update. Sent fields are written even when
// empty, except username which may not be cleared.
func (s *studentServiceImpl) UpdateProfile(ctx context.Context, studentID string, req *dto.UpdateProfileRequest) error {
	id, ok := models.ParseID(studentID)
	if !ok {
		return apperrors.ErrInvalidStudentID
	}

	patch := req.ToPatch()
	if patch.Username != nil && *patch.Username == "" {
		return apperrors.ErrUsernameEmpty
	}
	if patch.Email != nil && !validation.IsEmail(*patch.Email) {
		return apperrors.ErrInvalidEmail
	}

	res, err := s.studentRepo.UpdateProfile(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateUsername):
			return apperrors.ErrUsernameTaken
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return apperrors.ErrEmailTaken
		case errors.Is(err, repositories.ErrDuplicate):
			return apperrors.ErrStudentExists
		}
		return fmt.Errorf("error updating profile: %w", err)
	}

	if !res.Matched {
		return apperrors.ErrStudentNotFound
	}
	if !res.Modified {
		return apperrors.ErrDataUnchanged
	}

	s.logger.Info().Str("studentID", studentID).Int("fields", len(patch.Fields())).Msg("Profile updated")
	return nil
}
