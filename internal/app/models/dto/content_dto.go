package dto

import "github.com/yigit/examprep/internal/app/models"

// CreateModelTestRequest is stored verbatim as a model test. Marks and Time
// accept any JSON value.
type CreateModelTestRequest struct {
	Name        string      `json:"Name" example:"Mock1"`
	Marks       interface{} `json:"Marks" swaggertype:"number" example:"100"`
	Time        interface{} `json:"Time" swaggertype:"number" example:"60"`
	Subject     string      `json:"Subject" example:"Math"`
	QuestionIds []string    `json:"QuestionIds"`
}

// ToModel converts the request into a model test without an identifier
func (r *CreateModelTestRequest) ToModel() *models.ModelTest {
	ids := r.QuestionIds
	if ids == nil {
		ids = []string{}
	}
	return &models.ModelTest{
		Name:        r.Name,
		Marks:       r.Marks,
		Time:        r.Time,
		Subject:     r.Subject,
		QuestionIds: ids,
	}
}

// CreatedResponse acknowledges a stored document
type CreatedResponse struct {
	Message string `json:"message" example:"ModelTest stored successfully"`
	ID      string `json:"id" example:"665f1c2e9b1e8a3d4c5b6a79"`
}
