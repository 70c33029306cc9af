package pgrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examprep/internal/app/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionRepository stores question documents as JSONB rows tagged by subject
type QuestionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindBySubject returns the subject's questions in insertion order
func (r *QuestionRepository) FindBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	sql, args, err := r.sb.Select("id", "document").
		From("questions").
		Where(squirrel.Eq{"subject": subject}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying questions for %s: %w", subject, err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}

		fields := map[string]interface{}{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("error decoding question %s: %w", id, err)
		}
		questions = append(questions, models.Question{ID: id, Subject: subject, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions for %s: %w", subject, err)
	}

	return questions, nil
}

// CountBySubject counts the subject's questions
func (r *QuestionRepository) CountBySubject(ctx context.Context, subject string) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("questions").
		Where(squirrel.Eq{"subject": subject}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count questions query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting questions for %s: %w", subject, err)
	}
	return n, nil
}

// InsertMany stores documents under the subject
func (r *QuestionRepository) InsertMany(ctx context.Context, subject string, docs []map[string]interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	insert := r.sb.Insert("questions").Columns("id", "subject", "document")
	for _, d := range docs {
		doc := make(map[string]interface{}, len(d))
		for k, v := range d {
			if k == "_id" || k == "subject" {
				continue
			}
			doc[k] = v
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("error encoding question: %w", err)
		}
		insert = insert.Values(primitive.NewObjectID().Hex(), subject, raw)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert questions query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error inserting questions for %s: %w", subject, err)
	}
	return int(tag.RowsAffected()), nil
}
