// Package memrepo implements the repositories in process memory. It backs
// the memory driver and the service tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewRepositories initializes all repositories on fresh in-memory stores
func NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Students:   NewStudentRepository(),
		Questions:  NewQuestionRepository(),
		ModelTests: NewModelTestRepository(),
	}
}

// StudentRepository keeps students in a map. Uniqueness checks and writes
// happen under one lock.
type StudentRepository struct {
	mu       sync.RWMutex
	students map[primitive.ObjectID]models.Student
}

// NewStudentRepository creates an empty StudentRepository
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: make(map[primitive.ObjectID]models.Student)}
}

// Create inserts the student and sets its generated identifier
func (r *StudentRepository) Create(_ context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(primitive.NilObjectID, student.Email, student.Username); err != nil {
		return err
	}
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	r.students[student.ID] = *student
	return nil
}

// FindByEmail retrieves a student by email
func (r *StudentRepository) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if s.Email == email {
			found := s
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindByID retrieves a student by identifier
func (r *StudentRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

// FindProfileByID retrieves the public projection of a student
func (r *StudentRepository) FindProfileByID(ctx context.Context, id primitive.ObjectID) (*models.StudentProfile, error) {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := s.Profile()
	return &profile, nil
}

// UpdateProfile sets the present patch fields
func (r *StudentRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, patch models.ProfilePatch) (repositories.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return repositories.UpdateResult{}, nil
	}

	email, username := "", ""
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	if err := r.checkUnique(id, email, username); err != nil {
		return repositories.UpdateResult{}, err
	}

	modified := patch.ApplyTo(&s)
	r.students[id] = s
	return repositories.UpdateResult{Matched: true, Modified: modified}, nil
}

// UpdatePassword replaces the stored password hash
func (r *StudentRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) (repositories.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.students[id]
	if !ok {
		return repositories.UpdateResult{}, nil
	}
	modified := s.PasswordHash != passwordHash
	s.PasswordHash = passwordHash
	r.students[id] = s
	return repositories.UpdateResult{Matched: true, Modified: modified}, nil
}

// checkUnique must be called with the write lock held. Empty values are not checked.
func (r *StudentRepository) checkUnique(self primitive.ObjectID, email, username string) error {
	for id, s := range r.students {
		if id == self {
			continue
		}
		if email != "" && s.Email == email {
			return repositories.ErrDuplicateEmail
		}
		if username != "" && s.Username == username {
			return repositories.ErrDuplicateUsername
		}
	}
	return nil
}

// QuestionRepository keeps question documents per subject in insertion order
type QuestionRepository struct {
	mu       sync.RWMutex
	subjects map[string][]models.Question
}

// NewQuestionRepository creates an empty QuestionRepository
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{subjects: make(map[string][]models.Question)}
}

// FindBySubject returns copies of the subject's questions
func (r *QuestionRepository) FindBySubject(_ context.Context, subject string) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.subjects[subject]
	out := make([]models.Question, 0, len(stored))
	for _, q := range stored {
		fields := make(map[string]interface{}, len(q.Fields))
		for k, v := range q.Fields {
			fields[k] = v
		}
		out = append(out, models.Question{ID: q.ID, Subject: subject, Fields: fields})
	}
	return out, nil
}

// CountBySubject counts the subject's questions
func (r *QuestionRepository) CountBySubject(_ context.Context, subject string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.subjects[subject])), nil
}

// InsertMany stores documents under the subject
func (r *QuestionRepository) InsertMany(_ context.Context, subject string, docs []map[string]interface{}) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range docs {
		fields := make(map[string]interface{}, len(d))
		for k, v := range d {
			if k == "_id" || k == "subject" {
				continue
			}
			fields[k] = v
		}
		r.subjects[subject] = append(r.subjects[subject], models.Question{
			ID:      primitive.NewObjectID().Hex(),
			Subject: subject,
			Fields:  fields,
		})
	}
	return len(docs), nil
}

// ModelTestRepository keeps model tests in a map
type ModelTestRepository struct {
	mu    sync.RWMutex
	tests map[primitive.ObjectID]models.ModelTest
}

// NewModelTestRepository creates an empty ModelTestRepository
func NewModelTestRepository() *ModelTestRepository {
	return &ModelTestRepository{tests: make(map[primitive.ObjectID]models.ModelTest)}
}

// Create stores the model test and sets its generated identifier
func (r *ModelTestRepository) Create(_ context.Context, test *models.ModelTest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if test.ID.IsZero() {
		test.ID = primitive.NewObjectID()
	}
	stored := *test
	stored.QuestionIds = append([]string{}, test.QuestionIds...)
	r.tests[test.ID] = stored
	return nil
}

// FindAll returns every model test ordered by identifier, which follows
// creation time.
func (r *ModelTestRepository) FindAll(_ context.Context) ([]models.ModelTest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ModelTest, 0, len(r.tests))
	for _, t := range r.tests {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].ID.Hex(), out[j].ID.Hex()) < 0
	})
	return out, nil
}

// FindByID retrieves one model test
func (r *ModelTestRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.ModelTest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}
