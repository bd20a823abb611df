package api

import "time"

// swagger:model api.DashboardStats
type DashboardStats struct {
	Users int `json:"users" example:"12"`
	Tasks int `json:"tasks" example:"87"`
}

// swagger:model api.AuditEventResponse
type AuditEventResponse struct {
	ActorID   int       `json:"actor_id" example:"1"`
	Action    string    `json:"action" example:"task.create"`
	Subject   string    `json:"subject" example:"task:7"`
	CreatedAt time.Time `json:"created_at"`
}

// swagger:model api.DashboardResponse
type DashboardResponse struct {
	Message string               `json:"message" example:"Bienvenido, admin"`
	Stats   DashboardStats       `json:"stats"`
	Recent  []AuditEventResponse `json:"recent_activity"`
}
