package dto

// RegisterRequest represents student registration data
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"a@x.com"`
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"a@x.com"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

// AuthResponse is returned by registration and login. Field names follow the
// exam client.
type AuthResponse struct {
	Message     string `json:"message" example:"Login successful"`
	StudentID   string `json:"studentId" example:"665f1c2e9b1e8a3d4c5b6a79"`
	StudentName string `json:"studentName" example:"alice"`
	Token       string `json:"jwtoken"`
	IsStudent   bool   `json:"isStudent" example:"true"`
}
