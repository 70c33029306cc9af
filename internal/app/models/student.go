package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the stored account record. It is never serialized to clients
// directly; use Profile for reads. Profile fields are always stored, empty or
// not, so clearing an unset field is a no-op in every store.
type Student struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"hashedPassword"`
	FullName     string             `bson:"fullName"`
	Institute    string             `bson:"institute"`
	Batch        string             `bson:"batch"`
	Phone        string             `bson:"phone"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// StudentProfile is the read projection of a Student. It has no credential
// fields.
type StudentProfile struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Email     string             `json:"email" bson:"email"`
	Username  string             `json:"username" bson:"username"`
	FullName  string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Institute string             `json:"institute,omitempty" bson:"institute,omitempty"`
	Batch     string             `json:"batch,omitempty" bson:"batch,omitempty"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Profile projects the student onto its public fields
func (s *Student) Profile() StudentProfile {
	return StudentProfile{
		ID:        s.ID,
		Email:     s.Email,
		Username:  s.Username,
		FullName:  s.FullName,
		Institute: s.Institute,
		Batch:     s.Batch,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
	}
}

// Profile field names, shared by every store as the canonical attribute keys.
const (
	FieldFullName  = "fullName"
	FieldInstitute = "institute"
	FieldBatch     = "batch"
	FieldPhone     = "phone"
	FieldEmail     = "email"
	FieldUsername  = "username"
)

// ProfilePatch is a sparse profile update. A nil field is left untouched; a
// non-nil field is written even when it points to an empty string.
type ProfilePatch struct {
	FullName  *string
	Institute *string
	Batch     *string
	Phone     *string
	Email     *string
	Username  *string
}

// PatchField is one attribute assignment of a ProfilePatch
type PatchField struct {
	Name  string
	Value string
}

// Fields lists the present assignments in a stable order
func (p ProfilePatch) Fields() []PatchField {
	var fields []PatchField
	add := func(name string, v *string) {
		if v != nil {
			fields = append(fields, PatchField{Name: name, Value: *v})
		}
	}
	add(FieldFullName, p.FullName)
	add(FieldInstitute, p.Institute)
	add(FieldBatch, p.Batch)
	add(FieldPhone, p.Phone)
	add(FieldEmail, p.Email)
	add(FieldUsername, p.Username)
	return fields
}

// IsEmpty reports whether the patch carries no field at all
func (p ProfilePatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// ApplyTo writes the patch onto s and reports whether any value changed.
func (p ProfilePatch) ApplyTo(s *Student) bool {
	changed := false
	for _, f := range p.Fields() {
		var target *string
		switch f.Name {
		case FieldFullName:
			target = &s.FullName
		case FieldInstitute:
			target = &s.Institute
		case FieldBatch:
			target = &s.Batch
		case FieldPhone:
			target = &s.Phone
		case FieldEmail:
			target = &s.Email
		case FieldUsername:
			target = &s.Username
		}
		if target != nil && *target != f.Value {
			*target = f.Value
			changed = true
		}
	}
	return changed
}
