package api

// TaskResponse 對外的任務格式，due_date 以 YYYY-MM-DD 呈現，無期限為 null
// swagger:model api.TaskResponse
type TaskResponse struct {
	ID          int     `json:"id" example:"7"`
	Title       string  `json:"title" example:"Comprar leche"`
	Description string  `json:"description" example:"2 litros"`
	DueDate     *string `json:"due_date" example:"2025-06-01"`
	Status      string  `json:"status" example:"Pendiente"`
	Priority    string  `json:"priority" example:"alta"`
	UserID      int     `json:"user_id" example:"42"`
	UserEmail   string  `json:"user_email" example:"alice@example.com"`
}
