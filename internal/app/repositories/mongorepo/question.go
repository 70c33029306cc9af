package mongorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/examprep/internal/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionRepository reads the Questions_<Subject> collections
type QuestionRepository struct {
	database *mongo.Database
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(database *mongo.Database) *QuestionRepository {
	return &QuestionRepository{database: database}
}

// FindBySubject returns every document of the subject's collection, tagged
// with the subject.
func (r *QuestionRepository) FindBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	cursor, err := r.database.Collection(models.QuestionCollection(subject)).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error querying questions for %s: %w", subject, err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding question: %w", err)
		}
		questions = append(questions, toQuestion(doc, subject))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions for %s: %w", subject, err)
	}

	return questions, nil
}

// CountBySubject counts the documents of the subject's collection
func (r *QuestionRepository) CountBySubject(ctx context.Context, subject string) (int64, error) {
	n, err := r.database.Collection(models.QuestionCollection(subject)).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting questions for %s: %w", subject, err)
	}
	return n, nil
}

// InsertMany adds documents to the subject's collection
func (r *QuestionRepository) InsertMany(ctx context.Context, subject string, docs []map[string]interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	batch := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		doc := bson.M{}
		for k, v := range d {
			if k == "_id" || k == "subject" {
				continue
			}
			doc[k] = v
		}
		doc["_id"] = primitive.NewObjectID()
		batch = append(batch, doc)
	}

	res, err := r.database.Collection(models.QuestionCollection(subject)).InsertMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("error inserting questions for %s: %w", subject, err)
	}
	return len(res.InsertedIDs), nil
}

func toQuestion(doc bson.M, subject string) models.Question {
	q := models.Question{Subject: subject, Fields: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			q.ID = idString(v)
			continue
		}
		if k == "subject" {
			continue
		}
		q.Fields[k] = normalize(v)
	}
	return q
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// normalize converts BSON-specific values into plain JSON-friendly values
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case primitive.M:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = normalize(inner)
		}
		return out
	case primitive.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = normalize(inner)
		}
		return out
	default:
		return val
	}
}
