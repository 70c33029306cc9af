package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/pkg/dberrors"
	"github.com/yigit/examprep/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Unique constraint names from the students table
const (
	studentsEmailKey    = "students_email_key"
	studentsUsernameKey = "students_username_key"
)

// studentColumns maps profile field names to table columns
var studentColumns = map[string]string{
	models.FieldFullName:  "full_name",
	models.FieldInstitute: "institute",
	models.FieldBatch:     "batch",
	models.FieldPhone:     "phone",
	models.FieldEmail:     "email",
	models.FieldUsername:  "username",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}

	sql, args, err := r.sb.Insert("students").
		Columns("id", "email", "username", "hashed_password", "full_name", "institute", "batch", "phone", "created_at").
		Values(student.ID.Hex(), student.Email, student.Username, student.PasswordHash,
			student.FullName, student.Institute, student.Batch, student.Phone, student.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			logger.Warn().Str("email", student.Email).Str("username", student.Username).Msg("Attempted to create student with duplicate key")
			return dupErr
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Str("studentID", student.ID.Hex()).Msg("Student created successfully")
	return nil
}

// FindByEmail retrieves a student by email
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

// FindByID retrieves a student by identifier
func (r *StudentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id.Hex()})
}

// FindProfileByID retrieves the public projection of a student
func (r *StudentRepository) FindProfileByID(ctx context.Context, id primitive.ObjectID) (*models.StudentProfile, error) {
	student, err := r.findOne(ctx, squirrel.Eq{"id": id.Hex()})
	if err != nil {
		return nil, err
	}
	profile := student.Profile()
	return &profile, nil
}

// UpdateProfile sets the present patch fields. Rows whose values already
// match the patch are not touched, so Modified reflects a real change.
func (r *StudentRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch models.ProfilePatch) (repositories.UpdateResult, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		return r.exists(ctx, id)
	}

	update := r.sb.Update("students").Where(squirrel.Eq{"id": id.Hex()})
	changed := squirrel.Or{}
	for _, f := range fields {
		column := studentColumns[f.Name]
		update = update.Set(column, f.Value)
		changed = append(changed, squirrel.Expr(column+" IS DISTINCT FROM ?", f.Value))
	}

	sql, args, err := update.Where(changed).ToSql()
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return repositories.UpdateResult{}, dupErr
		}
		logger.Error().Err(err).Str("studentID", id.Hex()).Msg("Error updating student profile")
		return repositories.UpdateResult{}, fmt.Errorf("error updating student profile: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return repositories.UpdateResult{Matched: true, Modified: true}, nil
	}
	return r.exists(ctx, id)
}

// UpdatePassword replaces the stored password hash
func (r *StudentRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) (repositories.UpdateResult, error) {
	sql, args, err := r.sb.Update("students").
		Set("hashed_password", passwordHash).
		Where(squirrel.Eq{"id": id.Hex()}).
		ToSql()
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id.Hex()).Msg("Error updating student password")
		return repositories.UpdateResult{}, fmt.Errorf("error updating student password: %w", err)
	}

	affected := tag.RowsAffected() > 0
	return repositories.UpdateResult{Matched: affected, Modified: affected}, nil
}

func (r *StudentRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "email", "username", "hashed_password",
		"COALESCE(full_name, '')", "COALESCE(institute, '')", "COALESCE(batch, '')", "COALESCE(phone, '')", "created_at").
		From("students").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var (
		student models.Student
		id      string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&id, &student.Email, &student.Username, &student.PasswordHash,
		&student.FullName, &student.Institute, &student.Batch, &student.Phone, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	if student.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("stored student id %q is malformed: %w", id, err)
	}
	return &student, nil
}

func (r *StudentRepository) exists(ctx context.Context, id primitive.ObjectID) (repositories.UpdateResult, error) {
	var exists bool
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"id": id.Hex()}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("failed to build student exists query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("error checking student existence: %w", err)
	}
	return repositories.UpdateResult{Matched: exists}, nil
}

func duplicateError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, studentsEmailKey):
		return repositories.ErrDuplicateEmail
	case dberrors.IsDuplicateConstraintError(err, studentsUsernameKey):
		return repositories.ErrDuplicateUsername
	case dberrors.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return nil
}
