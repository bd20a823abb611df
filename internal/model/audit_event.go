// File: internal/model/audit_event.go
package model

import "time"

// AuditEvent 紀錄一次使用者或任務的變更
type AuditEvent struct {
	ID        int       `db:"id" json:"id"`
	ActorID   int       `db:"actor_id" json:"actor_id"`
	Action    string    `db:"action" json:"action"`
	Subject   string    `db:"subject" json:"subject"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
