package services

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/app/repositories"
	"github.com/yigit/examprep/internal/app/repositories/memrepo"
	"github.com/yigit/examprep/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	repos   *repositories.Repositories
	jwt     *auth.JWTService
	auth    AuthService
	student StudentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		Expiration:  time.Hour,
		TokenIssuer: "examprep-test",
	})
	require.NoError(t, err)

	repos := memrepo.NewRepositories()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return &testEnv{
		repos:   repos,
		jwt:     jwtService,
		auth:    NewAuthService(repos.Students, hasher, jwtService, zerolog.Nop()),
		student: NewStudentService(repos.Students, zerolog.Nop()),
	}
}

func randomRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:    gofakeit.Email(),
		Username: gofakeit.Username() + gofakeit.DigitN(4),
		Password: gofakeit.Password(true, true, true, false, false, 10),
	}
}

func strPtr(s string) *string { return &s }
