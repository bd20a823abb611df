package tasks

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	createTask           = store.CreateTask
	getTaskByID          = store.GetTaskByID
	listTasksByOwner     = store.ListTasksByOwner
	updateTask           = store.UpdateTask
	deleteTask           = store.DeleteTask
	getUserByID          = store.GetUserByID
	recordAudit          = service.RecordAudit
	invalidateStatsCache = service.InvalidateStatsCache
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

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok
}

// fieldError 將任務欄位錯誤對應為 422，其他視為儲存層錯誤
func fieldError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrPriorityRequired),
		errors.Is(err, service.ErrInvalidDueDate):
		return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// @Summary     Create a task
// @Description 建立任務；管理員必須以 user_id 指定擁有者，一般使用者擁有者即本人
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       body body api.CreateTaskRequest true "任務欄位"
// @Success     201 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks [post]
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
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		}

		ownerID := claims.UserID
		if claims.Role == model.RoleAdmin {
			if req.UserID == nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user_id is required for admins"})
			}
			if _, err := getUserByID(c.Request().Context(), db, *req.UserID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
				}
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
			ownerID = *req.UserID
		}

		task, err := service.NewTask(req, ownerID)
		if err != nil {
			return fieldError(c, err)
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

// @Summary     List own tasks
// @Description 列出當前使用者擁有的任務（管理員請改用 /admin/tasks）
// @Tags        tasks
// @Produce     json
// @Success     200 {array} api.TaskResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks [get]
func ListTasksHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}

		ts, err := listTasksByOwner(c.Request().Context(), db, claims.UserID)
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

// @Summary     Get a task by ID
// @Description 取得單一任務，僅限擁有者或管理員
// @Tags        tasks
// @Produce     json
// @Param       id path int true "任務 ID"
// @Success     200 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id} [get]
func GetTaskHandler(db database.DB) echo.HandlerFunc {
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
		if err := service.Authorize(claims, service.ActionTaskRead, task.OwnerID); err != nil {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "forbidden"})
		}

		return c.JSON(http.StatusOK, taskResponse(task))
	}
}

// @Summary     Update a task
// @Description 部分更新任務，僅限擁有者或管理員；全部欄位驗證通過才套用
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Param       id   path int                   true "任務 ID"
// @Param       body body api.UpdateTaskRequest true "要更新的欄位"
// @Success     200 {object} api.TaskResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id} [put]
func UpdateTaskHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid task ID"})
		}

		var req api.UpdateTaskRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request payload"})
		}

		task, err := getTaskByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "task not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		if err := service.Authorize(claims, service.ActionTaskUpdate, task.OwnerID); err != nil {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "forbidden"})
		}

		// 改派擁有者前先確認目標使用者存在，避免半套用
		if req.UserID != nil {
			if _, err := getUserByID(c.Request().Context(), db, *req.UserID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
				}
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
		}

		if err := service.MergeTaskUpdate(task, req); err != nil {
			return fieldError(c, err)
		}
		if err := updateTask(c.Request().Context(), db, task); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		// 重新查詢以取得最新的擁有者 email
		fresh, err := getTaskByID(c.Request().Context(), db, task.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "task.update", fmt.Sprintf("task:%d", fresh.ID))
		invalidateStatsCache(wp, rdb)

		return c.JSON(http.StatusOK, taskResponse(fresh))
	}
}

// @Summary     Delete a task
// @Description 刪除任務，僅限擁有者或管理員
// @Tags        tasks
// @Produce     json
// @Param       id path int true "任務 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /tasks/{id} [delete]
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
		if err := service.Authorize(claims, service.ActionTaskDelete, task.OwnerID); err != nil {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "forbidden"})
		}

		if err := deleteTask(c.Request().Context(), db, task.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "task.delete", fmt.Sprintf("task:%d", task.ID))
		invalidateStatsCache(wp, rdb)

		return c.JSON(http.StatusOK, api.MessageResponse{Message: "task deleted"})
	}
}
