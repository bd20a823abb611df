package store

import (
	"context"
	"fmt"

	"taskboard/internal/database"
	"taskboard/internal/model"
)

const taskColumns = `t.id, t.title, t.description, t.due_date, t.status, t.priority, t.owner_id, u.email`

func scanTask(row interface{ Scan(dest ...any) error }, t *model.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Status,
		&t.Priority,
		&t.OwnerID,
		&t.OwnerEmail,
	)
}

func CreateTask(ctx context.Context, db database.DB, t *model.Task) (*model.Task, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, due_date, status, priority, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.Title,
		t.Description,
		t.DueDate,
		t.Status,
		t.Priority,
		t.OwnerID,
	)
	if err := row.Scan(&t.ID); err != nil {
		return nil, fmt.Errorf("CreateTask: %w", err)
	}
	return t, nil
}

// GetTaskByID 帶出擁有者 email，回應永遠反映最新的擁有者
func GetTaskByID(ctx context.Context, db database.DB, taskID int) (*model.Task, error) {
	row := db.QueryRow(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t JOIN users u ON u.id = t.owner_id
		 WHERE t.id = $1`,
		taskID,
	)
	t := &model.Task{}
	if err := scanTask(row, t); err != nil {
		return nil, fmt.Errorf("GetTaskByID: %w", err)
	}
	return t, nil
}

func ListTasksByOwner(ctx context.Context, db database.DB, ownerID int) ([]model.Task, error) {
	rows, err := db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t JOIN users u ON u.id = t.owner_id
		 WHERE t.owner_id = $1 ORDER BY t.id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListTasksByOwner: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("ListTasksByOwner: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTasksByOwner: %w", err)
	}
	return tasks, nil
}

func ListAllTasks(ctx context.Context, db database.DB) ([]model.Task, error) {
	rows, err := db.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM tasks t JOIN users u ON u.id = t.owner_id
		 ORDER BY t.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAllTasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("ListAllTasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAllTasks: %w", err)
	}
	return tasks, nil
}

func UpdateTask(ctx context.Context, db database.DB, t *model.Task) error {
	_, err := db.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, status = $4, priority = $5, owner_id = $6
		 WHERE id = $7`,
		t.Title,
		t.Description,
		t.DueDate,
		t.Status,
		t.Priority,
		t.OwnerID,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateTask: %w", err)
	}
	return nil
}

func DeleteTask(ctx context.Context, db database.DB, taskID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1`,
		taskID,
	)
	if err != nil {
		return fmt.Errorf("DeleteTask: %w", err)
	}
	return nil
}

func CountTasks(ctx context.Context, db database.DB) (int, error) {
	row := db.QueryRow(ctx, `SELECT count(*) FROM tasks`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("CountTasks: %w", err)
	}
	return n, nil
}
