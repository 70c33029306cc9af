package dto

// MessageResponse is the body of endpoints that only acknowledge an action
type MessageResponse struct {
	Message string `json:"message" example:"Profile updated successfully"`
}

// HealthResponse reports process liveness
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
