package pgrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var modelTestColumns = []string{"id", "name", "marks", "time_minutes", "subject", "question_ids"}

// ModelTestRepository handles model test database operations
type ModelTestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewModelTestRepository creates a new ModelTestRepository
func NewModelTestRepository(db *pgxpool.Pool) *ModelTestRepository {
	return &ModelTestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the model test and sets its generated identifier
func (r *ModelTestRepository) Create(ctx context.Context, test *models.ModelTest) error {
	if test.ID.IsZero() {
		test.ID = primitive.NewObjectID()
	}
	questionIDs := test.QuestionIds
	if questionIDs == nil {
		questionIDs = []string{}
	}

	marks, err := json.Marshal(test.Marks)
	if err != nil {
		return fmt.Errorf("failed to encode model test marks: %w", err)
	}
	timeLimit, err := json.Marshal(test.Time)
	if err != nil {
		return fmt.Errorf("failed to encode model test time: %w", err)
	}

	sql, args, err := r.sb.Insert("model_tests").
		Columns(modelTestColumns...).
		Values(test.ID.Hex(), test.Name, marks, timeLimit, test.Subject, questionIDs).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create model test query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error storing model test: %w", err)
	}
	return nil
}

// FindAll returns every stored model test
func (r *ModelTestRepository) FindAll(ctx context.Context) ([]models.ModelTest, error) {
	sql, args, err := r.sb.Select(modelTestColumns...).
		From("model_tests").
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build model tests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying model tests: %w", err)
	}
	defer rows.Close()

	tests := []models.ModelTest{}
	for rows.Next() {
		test, err := scanModelTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *test)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating model tests: %w", err)
	}
	return tests, nil
}

// FindByID retrieves one model test
func (r *ModelTestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ModelTest, error) {
	sql, args, err := r.sb.Select(modelTestColumns...).
		From("model_tests").
		Where(squirrel.Eq{"id": id.Hex()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build model test query: %w", err)
	}

	test, err := scanModelTest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return test, nil
}

func scanModelTest(row pgx.Row) (*models.ModelTest, error) {
	var (
		test             models.ModelTest
		id               string
		marks, timeLimit []byte
	)
	if err := row.Scan(&id, &test.Name, &marks, &timeLimit, &test.Subject, &test.QuestionIds); err != nil {
		return nil, fmt.Errorf("error scanning model test row: %w", err)
	}
	if err := json.Unmarshal(marks, &test.Marks); err != nil {
		return nil, fmt.Errorf("stored model test marks are malformed: %w", err)
	}
	if err := json.Unmarshal(timeLimit, &test.Time); err != nil {
		return nil, fmt.Errorf("stored model test time is malformed: %w", err)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("stored model test id %q is malformed: %w", id, err)
	}
	test.ID = oid
	return &test, nil
}
