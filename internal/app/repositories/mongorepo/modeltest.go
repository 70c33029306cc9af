package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ModelTestRepository stores model tests in the ModelTests collection
type ModelTestRepository struct {
	coll *mongo.Collection
}

// NewModelTestRepository creates a new ModelTestRepository
func NewModelTestRepository(database *mongo.Database) *ModelTestRepository {
	return &ModelTestRepository{coll: database.Collection(db.ModelTestsCollection)}
}

// Create inserts the model test and sets its generated identifier
func (r *ModelTestRepository) Create(ctx context.Context, test *models.ModelTest) error {
	if test.ID.IsZero() {
		test.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, test); err != nil {
		return fmt.Errorf("error storing model test: %w", err)
	}
	return nil
}

// FindAll returns every stored model test
func (r *ModelTestRepository) FindAll(ctx context.Context) ([]models.ModelTest, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error querying model tests: %w", err)
	}

	tests := []models.ModelTest{}
	if err := cursor.All(ctx, &tests); err != nil {
		return nil, fmt.Errorf("error decoding model tests: %w", err)
	}
	for i := range tests {
		normalizeModelTest(&tests[i])
	}
	return tests, nil
}

// FindByID retrieves one model test
func (r *ModelTestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ModelTest, error) {
	var test models.ModelTest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&test); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving model test: %w", err)
	}
	normalizeModelTest(&test)
	return &test, nil
}

// normalizeModelTest turns decoded BSON values of the free-form fields into
// plain Go values.
func normalizeModelTest(test *models.ModelTest) {
	test.Marks = normalize(test.Marks)
	test.Time = normalize(test.Time)
}
