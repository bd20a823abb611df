// File: internal/service/audit.go
package service

import (
	"context"
	"log"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/internal/worker"
)

const auditTimeout = 3 * time.Second

var createAuditEvent = store.CreateAuditEvent

// RecordAudit 透過 worker pool 非同步寫入審計紀錄
// 寫入失敗只記 log，不影響原本的請求
func RecordAudit(wp worker.Pool, db database.DB, actorID int, action, subject string) {
	wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		ev := &model.AuditEvent{ActorID: actorID, Action: action, Subject: subject}
		if _, err := createAuditEvent(ctx, db, ev); err != nil {
			log.Printf("audit write failed: %v", err)
		}
	})
}
