// File: internal/service/policy.go
package service

import (
	"errors"

	"taskboard/internal/model"
)

// Action 表示一次請求想對資源執行的操作
type Action string

const (
	ActionTaskRead   Action = "task.read"
	ActionTaskUpdate Action = "task.update"
	ActionTaskDelete Action = "task.delete"
	ActionUserDelete Action = "user.delete"
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrSelfDelete = errors.New("cannot delete own account")
)

// Authorize 是所有 handler 共用的授權決策點
// ownerID 為資源擁有者；對使用者資源而言即目標使用者的 ID
//
// 任務操作採 owner-or-admin 規則；刪除使用者僅限管理員，
// 且不得刪除自己的帳號（唯一凌駕於管理員權限之上的規則）。
func Authorize(claims *CustomClaims, action Action, ownerID int) error {
	switch action {
	case ActionTaskRead, ActionTaskUpdate, ActionTaskDelete:
		if claims.Role == model.RoleAdmin || claims.UserID == ownerID {
			return nil
		}
		return ErrForbidden
	case ActionUserDelete:
		if claims.Role != model.RoleAdmin {
			return ErrForbidden
		}
		if claims.UserID == ownerID {
			return ErrSelfDelete
		}
		return nil
	default:
		return ErrForbidden
	}
}
