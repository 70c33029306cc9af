package dto

import "github.com/yigit/examprep/internal/app/models"

// UpdateProfileRequest is a sparse profile update. Omitted fields are left
// untouched; fields sent as "" are cleared.
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName,omitempty"`
	Institute *string `json:"institute,omitempty"`
	Batch     *string `json:"batch,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
}

// ToPatch converts the request into a store patch
func (r *UpdateProfileRequest) ToPatch() models.ProfilePatch {
	return models.ProfilePatch{
		FullName:  r.FullName,
		Institute: r.Institute,
		Batch:     r.Batch,
		Phone:     r.Phone,
		Email:     r.Email,
		Username:  r.Username,
	}
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	OldPassword        string `json:"oldPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required"`
}
