package api

// UpdateUserRequest 的欄位皆為選填，省略的欄位保持原值
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email" example:"alice@example.com"`
	Role     *string `json:"role" example:"admin"`
	Password *string `json:"password" example:"NewSecret456!"`
}
