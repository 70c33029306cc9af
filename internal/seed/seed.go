package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	appRepos "github.com/yigit/examprep/internal/app/repositories"
	"gopkg.in/yaml.v3"
)

// QuestionBank is the layout of a question seed file: documents grouped by subject
type QuestionBank struct {
	Subjects map[string][]map[string]interface{} `yaml:"subjects"`
}

// LoadQuestionBank reads a YAML question seed file
func LoadQuestionBank(path string) (*QuestionBank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question seed file: %w", err)
	}

	var bank QuestionBank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question seed file: %w", err)
	}
	return &bank, nil
}

// CreateDefaultData seeds the question banks of catalogue subjects that have
// no questions yet. Subjects already holding data are left alone, so the
// call is safe on every startup. An empty path does nothing.
func CreateDefaultData(ctx context.Context, questionRepo appRepos.QuestionRepository, subjects []string, path string, lgr zerolog.Logger) error {
	if path == "" {
		return nil
	}

	bank, err := LoadQuestionBank(path)
	if err != nil {
		return err
	}

	lgr.Info().Str("file", path).Msg("Checking/Creating default question banks...")

	known := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		known[s] = true
	}
	for subject := range bank.Subjects {
		if !known[subject] {
			lgr.Warn().Str("subject", subject).Msg("Seed file subject is not in the catalogue, skipping")
		}
	}

	var finalErr error
	for _, subject := range subjects {
		docs := bank.Subjects[subject]
		if len(docs) == 0 {
			continue
		}

		count, err := questionRepo.CountBySubject(ctx, subject)
		if err != nil {
			lgr.Error().Err(err).Str("subject", subject).Msg("Error counting questions")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if count > 0 {
			lgr.Debug().Str("subject", subject).Int64("count", count).Msg("Question bank already populated")
			continue
		}

		inserted, err := questionRepo.InsertMany(ctx, subject, docs)
		if err != nil {
			lgr.Error().Err(err).Str("subject", subject).Msg("Error seeding questions")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("subject", subject).Int("count", inserted).Msg("Question bank seeded")
	}

	return finalErr
}
