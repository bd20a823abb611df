package api

// swagger:model api.AssignTaskRequest
type AssignTaskRequest struct {
	UserID int `json:"user_id" validate:"required" example:"42"`
}
