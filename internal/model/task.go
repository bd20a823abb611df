// File: internal/model/task.go
package model

import "time"

// StatusPending 任務預設狀態（沿用既有資料的值，不做狀態機約束）
const StatusPending = "Pendiente"

type Task struct {
	ID          int        `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	OwnerID     int        `db:"owner_id" json:"owner_id"`

	// OwnerEmail 由查詢 JOIN users 帶出，不落地
	OwnerEmail string `db:"-" json:"owner_email"`
}
