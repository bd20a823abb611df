// File: internal/service/task.go
package service

import (
	"errors"
	"strings"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/model"
)

const dueDateLayout = "2006-01-02"

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrPriorityRequired = errors.New("priority is required")
	ErrInvalidDueDate   = errors.New("invalid due date, use YYYY-MM-DD")
	ErrInvalidRole      = errors.New("invalid role")
)

// ParseDueDate 解析 YYYY-MM-DD 日期，空字串視為無期限
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dueDateLayout, s)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &d, nil
}

// FormatDueDate 將期限轉為 YYYY-MM-DD，無期限回傳 nil
func FormatDueDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(dueDateLayout)
	return &s
}

// ParseRole 驗證角色字串是否為合法列舉值
func ParseRole(s string) (model.Role, error) {
	r := model.Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// NewTask 驗證建立請求並組出待存的任務
// title 與 priority 去除空白後不得為空；status 省略時使用預設值
func NewTask(req api.CreateTaskRequest, ownerID int) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		return nil, ErrPriorityRequired
	}
	due, err := ParseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	return &model.Task{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     due,
		Status:      status,
		Priority:    priority,
		OwnerID:     ownerID,
	}, nil
}

// MergeTaskUpdate 套用部分更新：先驗證所有欄位，全部合法才逐一套用，
// 避免日期解析失敗時留下半套用的結果
func MergeTaskUpdate(t *model.Task, req api.UpdateTaskRequest) error {
	var title, priority string
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		if title == "" {
			return ErrTitleRequired
		}
	}
	if req.Priority != nil {
		priority = strings.TrimSpace(*req.Priority)
		if priority == "" {
			return ErrPriorityRequired
		}
	}
	var due *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return err
		}
		due = d
	}

	if req.Title != nil {
		t.Title = title
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = priority
	}
	if due != nil {
		t.DueDate = due
	}
	if req.UserID != nil {
		t.OwnerID = *req.UserID
	}
	return nil
}
