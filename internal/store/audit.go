package store

import (
	"context"
	"fmt"

	"taskboard/internal/database"
	"taskboard/internal/model"
)

func CreateAuditEvent(ctx context.Context, db database.DB, ev *model.AuditEvent) (*model.AuditEvent, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO audit_events (actor_id, action, subject)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		ev.ActorID,
		ev.Action,
		ev.Subject,
	)
	if err := row.Scan(&ev.ID, &ev.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateAuditEvent: %w", err)
	}
	return ev, nil
}

func ListRecentAuditEvents(ctx context.Context, db database.DB, limit int) ([]model.AuditEvent, error) {
	rows, err := db.Query(ctx,
		`SELECT id, actor_id, action, subject, created_at
		 FROM audit_events ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ListRecentAuditEvents: %w", err)
	}
	defer rows.Close()

	var events []model.AuditEvent
	for rows.Next() {
		var ev model.AuditEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.ActorID,
			&ev.Action,
			&ev.Subject,
			&ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListRecentAuditEvents: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecentAuditEvents: %w", err)
	}
	return events, nil
}
