package users

import (
	"errors"
	"net/http"

	"taskboard/internal/api"
	"taskboard/internal/database"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
	"taskboard/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

var getUserByID = store.GetUserByID

// @Summary     Get current user profile
// @Description 透過 JWT Token 取得當前使用者資料
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /user [get]
func MeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or missing token"})
		}

		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		return c.JSON(http.StatusOK, api.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		})
	}
}
