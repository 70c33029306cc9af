// Package repotest holds behaviour checks shared by every repository backend
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewStudent builds an unsaved student with random unique credentials
func NewStudent() *models.Student {
	return &models.Student{
		Email:        gofakeit.Email(),
		Username:     gofakeit.Username() + gofakeit.DigitN(6),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuN1zv2b9pQ2lV2h1x7u7lC4c5r6s7t8u",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

func ptr(s string) *string { return &s }

// Run exercises the full repository contract against repos
func Run(t *testing.T, repos *repositories.Repositories) {
	t.Run("Students", func(t *testing.T) { runStudents(t, repos.Students) })
	t.Run("Questions", func(t *testing.T) { runQuestions(t, repos.Questions) })
	t.Run("ModelTests", func(t *testing.T) { runModelTests(t, repos.ModelTests) })
}

func runStudents(t *testing.T, repo repositories.StudentRepository) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		s := NewStudent()
		require.NoError(t, repo.Create(ctx, s))
		require.False(t, s.ID.IsZero())

		byEmail, err := repo.FindByEmail(ctx, s.Email)
		require.NoError(t, err)
		assert.Equal(t, s.ID, byEmail.ID)
		assert.Equal(t, s.PasswordHash, byEmail.PasswordHash)

		byID, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Username, byID.Username)

		profile, err := repo.FindProfileByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Email, profile.Email)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = repo.FindByEmail(ctx, gofakeit.Email())
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = repo.FindProfileByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		first := NewStudent()
		require.NoError(t, repo.Create(ctx, first))

		second := NewStudent()
		second.Email = first.Email
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)
		assert.ErrorIs(t, err, repositories.ErrDuplicate)
	})

	t.Run("duplicate username", func(t *testing.T) {
		first := NewStudent()
		require.NoError(t, repo.Create(ctx, first))

		second := NewStudent()
		second.Username = first.Username
		assert.ErrorIs(t, repo.Create(ctx, second), repositories.ErrDuplicateUsername)
	})

	t.Run("update profile", func(t *testing.T) {
		s := NewStudent()
		require.NoError(t, repo.Create(ctx, s))

		res, err := repo.UpdateProfile(ctx, s.ID, models.ProfilePatch{FullName: ptr("Alice A"), Batch: ptr("2024")})
		require.NoError(t, err)
		assert.True(t, res.Matched)
		assert.True(t, res.Modified)

		res, err = repo.UpdateProfile(ctx, s.ID, models.ProfilePatch{FullName: ptr("Alice A")})
		require.NoError(t, err)
		assert.True(t, res.Matched)
		assert.False(t, res.Modified)

		res, err = repo.UpdateProfile(ctx, s.ID, models.ProfilePatch{Batch: ptr("")})
		require.NoError(t, err)
		assert.True(t, res.Modified)

		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice A", got.FullName)
		assert.Empty(t, got.Batch)
		assert.Equal(t, s.PasswordHash, got.PasswordHash)
	})

	t.Run("clear unset field", func(t *testing.T) {
		s := NewStudent()
		require.NoError(t, repo.Create(ctx, s))

		res, err := repo.UpdateProfile(ctx, s.ID, models.ProfilePatch{Phone: ptr("")})
		require.NoError(t, err)
		assert.True(t, res.Matched)
		assert.False(t, res.Modified)
	})

	t.Run("update profile conflict", func(t *testing.T) {
		taken := NewStudent()
		require.NoError(t, repo.Create(ctx, taken))
		s := NewStudent()
		require.NoError(t, repo.Create(ctx, s))

		_, err := repo.UpdateProfile(ctx, s.ID, models.ProfilePatch{Username: ptr(taken.Username)})
		assert.ErrorIs(t, err, repositories.ErrDuplicateUsername)

		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Username, got.Username)
	})

	t.Run("update profile missing", func(t *testing.T) {
		res, err := repo.UpdateProfile(ctx, primitive.NewObjectID(), models.ProfilePatch{Phone: ptr("1")})
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})

	t.Run("update password", func(t *testing.T) {
		s := NewStudent()
		require.NoError(t, repo.Create(ctx, s))

		res, err := repo.UpdatePassword(ctx, s.ID, "new-hash")
		require.NoError(t, err)
		assert.True(t, res.Modified)

		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		res, err = repo.UpdatePassword(ctx, primitive.NewObjectID(), "x")
		require.NoError(t, err)
		assert.False(t, res.Matched)
	})
}

func runQuestions(t *testing.T, repo repositories.QuestionRepository) {
	ctx := context.Background()
	subject := "Physics" + gofakeit.DigitN(6)

	n, err := repo.CountBySubject(ctx, subject)
	require.NoError(t, err)
	assert.Zero(t, n)

	inserted, err := repo.InsertMany(ctx, subject, []map[string]interface{}{
		{"question": "What is g?", "answer": "9.8"},
		{"question": "Unit of force?", "answer": "N", "subject": "Math"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	questions, err := repo.FindBySubject(ctx, subject)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, q := range questions {
		assert.Equal(t, subject, q.Subject)
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Fields["question"])
		assert.NotContains(t, q.Fields, "subject")
	}

	other, err := repo.FindBySubject(ctx, subject+"x")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func runModelTests(t *testing.T, repo repositories.ModelTestRepository) {
	ctx := context.Background()
	name := "Mock" + gofakeit.DigitN(6)

	test := &models.ModelTest{Name: name, Marks: 100, Time: 60, Subject: "Math", QuestionIds: []string{"id1", "id2"}}
	require.NoError(t, repo.Create(ctx, test))
	require.False(t, test.ID.IsZero())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	var found bool
	for _, mt := range all {
		if mt.Name == name {
			found = true
			assert.Equal(t, []string{"id1", "id2"}, mt.QuestionIds)
		}
	}
	assert.True(t, found)

	got, err := repo.FindByID(ctx, test.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, got.Marks)
	assert.EqualValues(t, 60, got.Time)

	loose := &models.ModelTest{Name: name + "-loose", Marks: "100", Time: 60.5, Subject: "Math"}
	require.NoError(t, repo.Create(ctx, loose))
	got, err = repo.FindByID(ctx, loose.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.Marks)
	assert.Equal(t, 60.5, got.Time)

	_, err = repo.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
