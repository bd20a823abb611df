package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"taskboard/internal/api"
	"taskboard/internal/database"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/store"
	"taskboard/internal/worker"

	"github.com/labstack/echo/v4"
)

// defaultAdminEmail 哨兵信箱：第一次用它註冊且尚無管理員時自動升級
const defaultAdminEmail = "admin@example.com"

var (
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	recordAudit      = service.RecordAudit
	getUserByEmail   = store.GetUserByEmail
	adminExists      = store.AdminExists
	createUser       = store.CreateUser
)

func sentinelAdminEmail() string {
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		return strings.ToLower(v)
	}
	return defaultAdminEmail
}

// @Summary     Register a new account
// @Description 以 email 與密碼建立帳號，哨兵信箱首次註冊自動成為管理員
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RegisterRequest true "註冊資料"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(db database.DB, wp worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)

		role := model.RoleUser
		if req.Email == sentinelAdminEmail() {
			exists, err := adminExists(c.Request().Context(), db)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
			if !exists {
				role = model.RoleAdmin
			}
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to hash password"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Email:        req.Email,
			PasswordHash: hash,
			Role:         role,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		recordAudit(wp, db, user.ID, "user.register", "user:"+user.Email)

		return c.JSON(http.StatusCreated, api.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		})
	}
}

// @Summary     Log in
// @Description 驗證 email 與密碼，回傳一小時效期的存取令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.LoginRequest true "登入資料"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request payload"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)

		// 帳號不存在與密碼錯誤回應一致，避免帳號列舉
		user, err := getUserByEmail(c.Request().Context(), db, req.Email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		}
		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{
			Token: token,
			User: api.UserResponse{
				ID:        user.ID,
				Email:     user.Email,
				Role:      string(user.Role),
				CreatedAt: user.CreatedAt,
			},
		})
	}
}
