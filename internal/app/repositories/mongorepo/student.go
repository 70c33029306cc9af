package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/db"
	"github.com/yigit/examprep/internal/pkg/dberrors"
	"github.com/yigit/examprep/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StudentRepository stores students in the Students collection
type StudentRepository struct {
	coll *mongo.Collection
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *mongo.Database) *StudentRepository {
	return &StudentRepository{coll: database.Collection(db.StudentsCollection)}
}

// Create inserts the student and sets its generated identifier
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, student); err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			logger.Warn().Str("email", student.Email).Str("username", student.Username).Msg("Attempted to create student with duplicate key")
			return dupErr
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error inserting student")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Str("studentID", student.ID.Hex()).Msg("Student created successfully")
	return nil
}

// FindByEmail retrieves a student by email
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID retrieves a student by identifier
func (r *StudentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindProfileByID retrieves the public projection of a student
func (r *StudentRepository) FindProfileByID(ctx context.Context, id primitive.ObjectID) (*models.StudentProfile, error) {
	opts := options.FindOne().SetProjection(bson.M{"hashedPassword": 0})

	var profile models.StudentProfile
	err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Str("studentID", id.Hex()).Msg("Error retrieving student profile")
		return nil, fmt.Errorf("error retrieving student profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile sets the present patch fields
func (r *StudentRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (repositories.UpdateResult, error) {
	set := bson.D{}
	for _, f := range patch.Fields() {
		set = append(set, bson.E{Key: f.Name, Value: f.Value})
	}
	if len(set) == 0 {
		return r.exists(ctx, id)
	}

	res, err := r.coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return repositories.UpdateResult{}, dupErr
		}
		logger.Error().Err(err).Str("studentID", id.Hex()).Msg("Error updating student profile")
		return repositories.UpdateResult{}, fmt.Errorf("error updating student profile: %w", err)
	}

	return repositories.UpdateResult{
		Matched:  res.MatchedCount > 0,
		Modified: res.ModifiedCount > 0,
	}, nil
}

// UpdatePassword replaces the stored password hash
func (r *StudentRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) (repositories.UpdateResult, error) {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"hashedPassword": passwordHash}})
	if err != nil {
		logger.Error().Err(err).Str("studentID", id.Hex()).Msg("Error updating student password")
		return repositories.UpdateResult{}, fmt.Errorf("error updating student password: %w", err)
	}

	return repositories.UpdateResult{
		Matched:  res.MatchedCount > 0,
		Modified: res.ModifiedCount > 0,
	}, nil
}

func (r *StudentRepository) findOne(ctx context.Context, filter bson.M) (*models.Student, error) {
	var student models.Student
	if err := r.coll.FindOne(ctx, filter).Decode(&student); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &student, nil
}

func (r *StudentRepository) exists(ctx context.Context, id primitive.ObjectID) (repositories.UpdateResult, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("error checking student existence: %w", err)
	}
	return repositories.UpdateResult{Matched: n > 0}, nil
}

func duplicateError(err error) error {
	switch {
	case dberrors.IsDuplicateIndexError(err, db.StudentEmailIndex):
		return repositories.ErrDuplicateEmail
	case dberrors.IsDuplicateIndexError(err, db.StudentUsernameIndex):
		return repositories.ErrDuplicateUsername
	case dberrors.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return nil
}
