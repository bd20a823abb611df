package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var (
	hashPassword         = service.HashPassword
	recordAudit          = service.RecordAudit
	invalidateStatsCache = service.InvalidateStatsCache
	getUserByID          = store.GetUserByID
	listUsers            = store.ListUsers
	updateUser           = store.UpdateUser
	deleteUserCascade    = store.DeleteUserCascade
)

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok
}

// @Summary     List all users
// @Description 列出所有使用者，僅限管理員
// @Tags        admin
// @Produce     json
// @Success     200 {array} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		resp := make([]api.UserResponse, 0, len(users))
		for _, u := range users {
			resp = append(resp, api.UserResponse{
				ID:        u.ID,
				Email:     u.Email,
				Role:      string(u.Role),
				CreatedAt: u.CreatedAt,
			})
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// @Summary     Update a user
// @Description 更新使用者 email、角色或密碼；省略的欄位保持原值
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       id   path int                   true "使用者 ID"
// @Param       body body api.UpdateUserRequest true "要更新的欄位"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id} [put]
func UpdateUserHandler(db database.DB, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user ID"})
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		// 角色必須是合法列舉值，否則整筆不更新
		if req.Role != nil {
			role, err := service.ParseRole(*req.Role)
			if err != nil {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid role"})
			}
			user.Role = role
		}
		if req.Email != nil {
			user.Email = strings.ToLower(*req.Email)
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := hashPassword(*req.Password)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to hash password"})
			}
			user.PasswordHash = hash
		}

		if err := updateUser(c.Request().Context(), db, user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email already in use"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "user.update", fmt.Sprintf("user:%d", user.ID))

		return c.JSON(http.StatusOK, api.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		})
	}
}

// @Summary     Delete a user
// @Description 刪除使用者並一併刪除其所有任務；不得刪除自己的帳號
// @Tags        admin
// @Produce     json
// @Param       id path int true "使用者 ID"
// @Success     200 {object} api.MessageResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/users/{id} [delete]
func DeleteUserHandler(db database.DB, rdb cache.Cache, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user ID"})
		}

		user, err := getUserByID(c.Request().Context(), db, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		if err := service.Authorize(claims, service.ActionUserDelete, user.ID); err != nil {
			if errors.Is(err, service.ErrSelfDelete) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "cannot delete own account"})
			}
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "forbidden"})
		}

		if err := deleteUserCascade(c.Request().Context(), db, user.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, claims.UserID, "user.delete", fmt.Sprintf("user:%d", user.ID))
		invalidateStatsCache(wp, rdb)

		return c.JSON(http.StatusOK, api.MessageResponse{Message: "user deleted"})
	}
}
