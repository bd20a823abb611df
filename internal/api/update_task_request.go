package api

// UpdateTaskRequest 的欄位皆為選填，省略的欄位保持原值
// swagger:model api.UpdateTaskRequest
type UpdateTaskRequest struct {
	Title       *string `json:"title" example:"Comprar leche"`
	Description *string `json:"description" example:"2 litros"`
	DueDate     *string `json:"due_date" example:"2025-06-01"`
	Status      *string `json:"status" example:"Completada"`
	Priority    *string `json:"priority" example:"baja"`
	UserID      *int    `json:"user_id" example:"42"`
}
