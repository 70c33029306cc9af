// Package mongorepo implements the repositories on MongoDB
package mongorepo

import (
	"github.com/yigit/examprep/internal/app/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewRepositories initializes all repositories on one database
func NewRepositories(database *mongo.Database) *repositories.Repositories {
	return &repositories.Repositories{
		Students:   NewStudentRepository(database),
		Questions:  NewQuestionRepository(database),
		ModelTests: NewModelTestRepository(database),
	}
}
