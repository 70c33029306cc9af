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
	"github.com/yigit/examprep/internal/pkg/cache"
)

// ContentService defines the interface for question bank and model test operations
type ContentService interface {
	Subjects() []string
	ListQuestionsBySubject(ctx context.Context, subject string) ([]models.Question, error)
	ListAllQuestions(ctx context.Context) ([]models.Question, error)
	CreateModelTest(ctx context.Context, req *dto.CreateModelTestRequest) (string, error)
	ListModelTests(ctx context.Context) ([]models.ModelTest, error)
	GetModelTest(ctx context.Context, id string) (*models.ModelTest, error)
}

// contentServiceImpl implements ContentService
type contentServiceImpl struct {
	questionRepo  repositories.QuestionRepository
	modelTestRepo repositories.ModelTestRepository
	cache         *cache.QuestionCache
	subjects      []string
	known         map[string]struct{}
	logger        zerolog.Logger
}

// NewContentService creates a new ContentService serving the given subjects.
// An empty list falls back to models.DefaultSubjects.
func NewContentService(
	questionRepo repositories.QuestionRepository,
	modelTestRepo repositories.ModelTestRepository,
	questionCache *cache.QuestionCache,
	subjects []string,
	logger zerolog.Logger,
) ContentService {
	if len(subjects) == 0 {
		subjects = models.DefaultSubjects
	}
	if questionCache == nil {
		questionCache = cache.NewQuestionCache(0)
	}

	known := make(map[string]struct{}, len(subjects))
	for _, subj := range subjects {
		known[subj] = struct{}{}
	}

	return &contentServiceImpl{
		questionRepo:  questionRepo,
		modelTestRepo: modelTestRepo,
		cache:         questionCache,
		subjects:      append([]string(nil), subjects...),
		known:         known,
		logger:        logger,
	}
}

// Subjects returns the configured subject catalogue in order
func (s *contentServiceImpl) Subjects() []string {
	return append([]string(nil), s.subjects...)
}

// ListQuestionsBySubject returns the subject's questions, each tagged with it.
// A subject outside the catalogue is read like any other and usually yields
// an empty list.
func (s *contentServiceImpl) ListQuestionsBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	if subject == "" {
		return nil, apperrors.ErrSubjectRequired
	}
	return s.questions(ctx, subject)
}

// ListAllQuestions returns the union of every configured subject, in
// catalogue order.
func (s *contentServiceImpl) ListAllQuestions(ctx context.Context) ([]models.Question, error) {
	all := []models.Question{}
	for _, subject := range s.subjects {
		questions, err := s.questions(ctx, subject)
		if err != nil {
			return nil, err
		}
		all = append(all, questions...)
	}
	return all, nil
}

// questions reads one subject. Only catalogue subjects go through the cache,
// so arbitrary query values cannot grow it.
func (s *contentServiceImpl) questions(ctx context.Context, subject string) ([]models.Question, error) {
	load := func() ([]models.Question, error) {
		return s.questionRepo.FindBySubject(ctx, subject)
	}

	var (
		questions []models.Question
		hit       bool
		err       error
	)
	if _, ok := s.known[subject]; ok {
		questions, hit, err = s.cache.FetchOrLoad(subject, load)
	} else {
		questions, err = load()
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching questions for %s: %w", subject, err)
	}
	s.logger.Debug().Str("subject", subject).Bool("cached", hit).Int("count", len(questions)).Msg("Questions fetched")
	return questions, nil
}

// CreateModelTest stores the model test as given and returns its identifier
func (s *contentServiceImpl) CreateModelTest(ctx context.Context, req *dto.CreateModelTestRequest) (string, error) {
	test := req.ToModel()
	if err := s.modelTestRepo.Create(ctx, test); err != nil {
		return "", fmt.Errorf("error storing model test: %w", err)
	}

	s.logger.Info().Str("modelTestID", test.ID.Hex()).Str("name", test.Name).Msg("Model test stored")
	return test.ID.Hex(), nil
}

// ListModelTests returns every stored model test
func (s *contentServiceImpl) ListModelTests(ctx context.Context) ([]models.ModelTest, error) {
	tests, err := s.modelTestRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching model tests: %w", err)
	}
	return tests, nil
}

// GetModelTest returns one model test
func (s *contentServiceImpl) GetModelTest(ctx context.Context, id string) (*models.ModelTest, error) {
	oid, ok := models.ParseID(id)
	if !ok {
		return nil, apperrors.ErrInvalidModelTest
	}

	test, err := s.modelTestRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrModelTestNotFound
		}
		return nil, fmt.Errorf("error fetching model test: %w", err)
	}
	return test, nil
}
