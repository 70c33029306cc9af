package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/examprep/internal/app/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common repository errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate key")
	ErrDuplicateEmail    = fmt.Errorf("%w: email already in use", ErrDuplicate)
	ErrDuplicateUsername = fmt.Errorf("%w: username already in use", ErrDuplicate)
)

// UpdateResult reports what a single-document update did
type UpdateResult struct {
	// Matched is true when a document with the given identifier exists
	Matched bool
	// Modified is true when at least one stored value actually changed
	Modified bool
}

// StudentRepository persists student accounts. Email and username
// uniqueness is enforced by the store itself; violations surface as
// ErrDuplicateEmail or ErrDuplicateUsername.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
	FindProfileByID(ctx context.Context, id primitive.ObjectID) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (UpdateResult, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) (UpdateResult, error)
}

// QuestionRepository reads per-subject question banks
type QuestionRepository interface {
	FindBySubject(ctx context.Context, subject string) ([]models.Question, error)
	CountBySubject(ctx context.Context, subject string) (int64, error)
	InsertMany(ctx context.Context, subject string, docs []map[string]interface{}) (int, error)
}

// ModelTestRepository persists composed model tests
type ModelTestRepository interface {
	Create(ctx context.Context, test *models.ModelTest) error
	FindAll(ctx context.Context) ([]models.ModelTest, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ModelTest, error)
}

// Repositories holds all the repository instances of one backend
type Repositories struct {
	Students   StudentRepository
	Questions  QuestionRepository
	ModelTests ModelTestRepository
}
