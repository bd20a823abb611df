package api

// swagger:model api.CreateTaskRequest
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required" example:"Comprar leche"`
	Description string `json:"description" example:"2 litros"`
	DueDate     string `json:"due_date" example:"2025-06-01"`
	Status      string `json:"status" example:"Pendiente"`
	Priority    string `json:"priority" validate:"required" example:"alta"`

	// UserID 僅管理員建立任務時使用，指定任務擁有者
	UserID *int `json:"user_id" example:"42"`
}
