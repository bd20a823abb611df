package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func sampleTask() *model.Task {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return &model.Task{
		ID:         3,
		Title:      "report",
		DueDate:    &due,
		Status:     model.StatusPending,
		Priority:   "alta",
		OwnerID:    1,
		OwnerEmail: "a@b.com",
	}
}

func newAssignCtx(e *echo.Echo, id, body string, claims *service.CustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newCtx(e, http.MethodPatch, body, claims)
	c.SetPath("/admin/tasks/:id/assign")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestListAllTasksHandler(t *testing.T) {
	e := echo.New()

	t.Run("ok", func(t *testing.T) {
		t.Cleanup(restore)
		listAllTasks = func(context.Context, database.DB) ([]model.Task, error) {
			return []model.Task{*sampleTask(), *sampleTask()}, nil
		}
		ctx, rec := newCtx(e, http.MethodGet, "", adminClaims())
		require.NoError(t, ListAllTasksHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		require.Equal(t, "a@b.com", resp[0].UserEmail)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listAllTasks = func(context.Context, database.DB) ([]model.Task, error) { return nil, errors.New("db") }
		ctx, rec := newCtx(e, http.MethodGet, "", adminClaims())
		require.NoError(t, ListAllTasksHandler(&database.FakeDB{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAdminCreateTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("user_id required", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newCtx(e, http.MethodPost, `{"title":"x","priority":"alta"}`, adminClaims())
		require.NoError(t, CreateTaskHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "user_id is required")
	})

	t.Run("owner not found", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newCtx(e, http.MethodPost, `{"title":"x","priority":"alta","user_id":9}`, adminClaims())
		require.NoError(t, CreateTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("field error is 422", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return &model.User{ID: 9}, nil
		}
		ctx, rec := newCtx(e, http.MethodPost, `{"title":" ","priority":"alta","user_id":9}`, adminClaims())
		require.NoError(t, CreateTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		muteAsync()
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return &model.User{ID: 9}, nil
		}
		createTask = func(_ context.Context, _ database.DB, task *model.Task) (*model.Task, error) {
			require.Equal(t, 9, task.OwnerID)
			task.ID = 3
			return task, nil
		}
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return sampleTask(), nil
		}
		ctx, rec := newCtx(e, http.MethodPost, `{"title":"report","priority":"alta","user_id":9}`, adminClaims())
		require.NoError(t, CreateTaskHandler(&database.FakeDB{}, &cache.FakeCache{}, nil)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestAssignTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("invalid id", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newAssignCtx(e, "abc", `{"user_id":9}`, adminClaims())
		require.NoError(t, AssignTaskHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user_id", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{err: errors.New("required")}
		ctx, rec := newAssignCtx(e, "3", `{}`, adminClaims())
		require.NoError(t, AssignTaskHandler(nil, nil, nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "user_id is required")
	})

	t.Run("task not found", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newAssignCtx(e, "99", `{"user_id":9}`, adminClaims())
		require.NoError(t, AssignTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "task not found")
	})

	t.Run("target user not found leaves task untouched", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return sampleTask(), nil
		}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return nil, pgx.ErrNoRows
		}
		updateTask = func(context.Context, database.DB, *model.Task) error {
			t.Fatal("update must not run")
			return nil
		}
		ctx, rec := newAssignCtx(e, "3", `{"user_id":99}`, adminClaims())
		require.NoError(t, AssignTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "user not found")
	})

	t.Run("ok returns new owner email", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		muteAsync()
		calls := 0
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			calls++
			task := sampleTask()
			if calls > 1 {
				task.OwnerID = 9
				task.OwnerEmail = "new@b.com"
			}
			return task, nil
		}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return &model.User{ID: 9, Email: "new@b.com"}, nil
		}
		var written *model.Task
		updateTask = func(_ context.Context, _ database.DB, task *model.Task) error {
			written = task
			return nil
		}
		ctx, rec := newAssignCtx(e, "3", `{"user_id":9}`, adminClaims())
		require.NoError(t, AssignTaskHandler(&database.FakeDB{}, &cache.FakeCache{}, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 9, written.OwnerID)

		var resp api.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 9, resp.UserID)
		require.Equal(t, "new@b.com", resp.UserEmail)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return sampleTask(), nil
		}
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return &model.User{ID: 9}, nil
		}
		updateTask = func(context.Context, database.DB, *model.Task) error { return errors.New("db") }
		ctx, rec := newAssignCtx(e, "3", `{"user_id":9}`, adminClaims())
		require.NoError(t, AssignTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAdminDeleteTaskHandler(t *testing.T) {
	e := echo.New()

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newIDCtx(e, http.MethodDelete, "99", "", adminClaims())
		require.NoError(t, DeleteTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		t.Cleanup(restore)
		muteAsync()
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return sampleTask(), nil
		}
		deleted := 0
		deleteTask = func(_ context.Context, _ database.DB, id int) error {
			deleted = id
			return nil
		}
		ctx, rec := newIDCtx(e, http.MethodDelete, "3", "", adminClaims())
		require.NoError(t, DeleteTaskHandler(&database.FakeDB{}, &cache.FakeCache{}, nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 3, deleted)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		getTaskByID = func(context.Context, database.DB, int) (*model.Task, error) {
			return sampleTask(), nil
		}
		deleteTask = func(context.Context, database.DB, int) error { return errors.New("db") }
		ctx, rec := newIDCtx(e, http.MethodDelete, "3", "", adminClaims())
		require.NoError(t, DeleteTaskHandler(&database.FakeDB{}, nil, nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
