package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	createTask   = store.CreateTask
	getTaskByID  = store.GetTaskByID
	listAllTasks = store.ListAllTasks
	updateTask   = store.UpdateTask
	deleteTask   = store.DeleteTask
)

func taskResponse(t *model.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     service.FormatDueDate(t.DueDate),
		Status:      t.Status,
		Priority:    t.Priority,
		UserID:      t.OwnerID,
		UserEmail:   t.OwnerEmail,
	}
}

// @Summary     List all tasks
// @Description 列出所有使用者的任務，僅限管理員
// @Tags        admin
// @Produce     json
// @Success     200 {array} api.TaskResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/tasks [get]
func ListAllTasksHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ts, err := listAllTasks(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		resp := make([]api.TaskResponse, 0, len(ts))
		for i := range ts {
			resp = append(resp, taskResponse(&ts[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Create a task for any user
// @Description 以管理員身分替指定使用者建立任務，user_id 為必填
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       body body api.CreateTaskRequest true "任務欄位（含 user_id）"
// @Success     201 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/tasks [post]
func CreateTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}

		var req api.CreateTaskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request payload"})
		}
		if req.UserID == nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user_id is required"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		}

		owner, err := getUserByID(c.Request().Context(), db, *req.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		task, err := service.NewTask(req, owner.ID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTitleRequired),
				errors.Is(err, service.ErrPriorityRequired),
				errors.Is(err, service.ErrInvalidDueDate):
				return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
		}

		created, err := createTask(c.Request().Context(), db, task)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		full, err := getTaskByID(c.Request().Context(), db, created.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "task.create", fmt.Sprintf("task:%d", full.ID))
		invalidateStatsCache(wp, rdb)

		return c.JSON(http.StatusCreated, taskResponse(full))
	}
}

// @Summary     Assign a task to a user
// @Description 將任務改派給指定使用者；目標不存在時不做任何變更
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       id   path int                   true "任務 ID"
// @Param       body body api.AssignTaskRequest true "目標使用者"
// @Success     200 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/tasks/{id}/assign [patch]
func AssignTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid task ID"})
		}

		var req api.AssignTaskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user_id is required"})
		}

		task, err := getTaskByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		owner, err := getUserByID(c.Request().Context(), db, req.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		task.OwnerID = owner.ID
		if err := updateTask(c.Request().Context(), db, task); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		fresh, err := getTaskByID(c.Request().Context(), db, task.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "task.assign", fmt.Sprintf("task:%d->user:%d", fresh.ID, owner.ID))
		invalidateStatsCache(wp, rdb)

		return c.JSON(http.StatusOK, taskResponse(fresh))
	}
}

// @Summary     Delete any task
// @Description 以管理員身分刪除任何任務
// @Tags        admin
// @Produce     json
// @Param       id path int true "任務 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/tasks/{id} [delete]
func DeleteTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid task ID"})
		}

		task, err := getTaskByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		if err := deleteTask(c.Request().Context(), db, task.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "task.delete", fmt.Sprintf("task:%d", task.ID))
		invalidateStatsCache(wp, rdb)

		return c.JSON(http.StatusOK, api.MessageResponse{Message: "task deleted"})
	}
}
