// Package pgrepo implements the repositories on PostgreSQL
package pgrepo

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/examprep/internal/app/repositories"
)

// NewRepositories initializes all repositories on one pool
func NewRepositories(db *pgxpool.Pool) *repositories.Repositories {
	return &repositories.Repositories{
		Students:   NewStudentRepository(db),
		Questions:  NewQuestionRepository(db),
		ModelTests: NewModelTestRepository(db),
	}
}
