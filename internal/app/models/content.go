package models

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultSubjects is the subject union served by the all-questions listing
// when no catalogue is configured.
var DefaultSubjects = []string{"Physics", "Math", "Chemistry", "English"}

// QuestionCollection returns the per-subject collection name
func QuestionCollection(subject string) string {
	return "Questions_" + subject
}

// Question is an opaque question-bank document. Only its identifier and the
// subject it was read under are known; every other attribute is carried in
// Fields as stored.
type Question struct {
	ID      string
	Subject string
	Fields  map[string]interface{}
}

// MarshalJSON flattens the document so clients see the stored attributes next
// to _id and subject.
func (q Question) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(q.Fields)+2)
	for k, v := range q.Fields {
		doc[k] = v
	}
	doc["_id"] = q.ID
	doc["subject"] = q.Subject
	return json.Marshal(doc)
}

// ModelTest is a named, timed set of question references for one subject.
// Field names match the documents the exam client stores and reads. Marks
// and Time are kept exactly as the client sent them, number or not.
type ModelTest struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"Name" bson:"Name"`
	Marks       interface{}        `json:"Marks" bson:"Marks"`
	Time        interface{}        `json:"Time" bson:"Time"`
	Subject     string             `json:"Subject" bson:"Subject"`
	QuestionIds []string           `json:"QuestionIds" bson:"QuestionIds"`
}

// ParseID parses a 24-character hex object identifier
func ParseID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
