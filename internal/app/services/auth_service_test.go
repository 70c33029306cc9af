package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Student.Username)
	assert.NotEqual(t, "secret1", res.Student.PasswordHash)

	claims, err := env.jwt.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Student.ID.Hex(), claims.StudentID)
	assert.Equal(t, "a@x.com", claims.Email)

	stored, err := env.repos.Students.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, &dto.RegisterRequest{Email: "a@x.com", Username: "bob", Password: "secret2"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.auth.Register(ctx, &dto.RegisterRequest{Email: "b@x.com", Username: "alice", Password: "secret2"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "Email or username already exists", apperrors.UserMessage(err))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.RegisterRequest
		want error
	}{
		{"missing email", dto.RegisterRequest{Username: "alice", Password: "secret1"}, apperrors.ErrAllFieldsRequired},
		{"missing username", dto.RegisterRequest{Email: "a@x.com", Password: "secret1"}, apperrors.ErrAllFieldsRequired},
		{"missing password", dto.RegisterRequest{Email: "a@x.com", Username: "alice"}, apperrors.ErrAllFieldsRequired},
		{"malformed email", dto.RegisterRequest{Email: "alice", Username: "alice", Password: "secret1"}, apperrors.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.auth.Register(ctx, &req)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := randomRegistration()

	registered, err := env.auth.Register(ctx, reg)
	require.NoError(t, err)

	res, err := env.auth.Login(ctx, &dto.LoginRequest{Email: reg.Email, Password: reg.Password})
	require.NoError(t, err)
	assert.Equal(t, registered.Student.ID, res.Student.ID)
	assert.NotEmpty(t, res.Token)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: reg.Email, Password: reg.Password + "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@x.com", Password: reg.Password})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: reg.Email})
	assert.ErrorIs(t, err, apperrors.ErrCredentialsRequired)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := randomRegistration()

	registered, err := env.auth.Register(ctx, reg)
	require.NoError(t, err)
	id := registered.Student.ID.Hex()

	err = env.auth.ChangePassword(ctx, id, &dto.ChangePasswordRequest{
		OldPassword: reg.Password, NewPassword: "newsecret", ConfirmNewPassword: "newsecret",
	})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: reg.Email, Password: "newsecret"})
	assert.NoError(t, err)
	_, err = env.auth.Login(ctx, &dto.LoginRequest{Email: reg.Email, Password: reg.Password})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_ChangePasswordRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reg := randomRegistration()

	registered, err := env.auth.Register(ctx, reg)
	require.NoError(t, err)
	id := registered.Student.ID.Hex()
	originalHash := registered.Student.PasswordHash

	tests := []struct {
		name string
		id   string
		req  dto.ChangePasswordRequest
		want error
	}{
		{"malformed id", "not-an-id", dto.ChangePasswordRequest{OldPassword: reg.Password, NewPassword: "newsecret", ConfirmNewPassword: "newsecret"}, apperrors.ErrInvalidStudentID},
		{"too short", id, dto.ChangePasswordRequest{OldPassword: reg.Password, NewPassword: "abc", ConfirmNewPassword: "abc"}, apperrors.ErrPasswordTooShort},
		{"mismatch", id, dto.ChangePasswordRequest{OldPassword: reg.Password, NewPassword: "newsecret", ConfirmNewPassword: "newsecret2"}, apperrors.ErrPasswordsMismatch},
		{"wrong old", id, dto.ChangePasswordRequest{OldPassword: "wrong-old", NewPassword: "newsecret", ConfirmNewPassword: "newsecret"}, apperrors.ErrWrongOldPassword},
		{"unknown student", primitive.NewObjectID().Hex(), dto.ChangePasswordRequest{OldPassword: reg.Password, NewPassword: "newsecret", ConfirmNewPassword: "newsecret"}, apperrors.ErrStudentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := env.auth.ChangePassword(ctx, tt.id, &req)
			assert.ErrorIs(t, err, tt.want)

			stored, err := env.repos.Students.FindByID(ctx, registered.Student.ID)
			require.NoError(t, err)
			assert.Equal(t, originalHash, stored.PasswordHash)
		})
	}
}
