// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/handler/admin"
	"taskboard/internal/handler/auth"
	"taskboard/internal/handler/tasks"
	"taskboard/internal/handler/users"
	"taskboard/internal/middleware"
	"taskboard/internal/worker"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, wp worker.Pool) {
	api := e.Group("/api")

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db), middleware.RequireAuth)

	// 註冊與登入
	api.POST("/register", auth.RegisterHandler(db, wp))
	api.POST("/auth/login", auth.LoginHandler(db))

	// 當前使用者資料
	api.GET("/user", users.MeHandler(db), middleware.RequireAuth)

	// 任務 CRUD（owner-or-admin 規則在 handler 內以 policy 判定）
	apiTasks := api.Group("/tasks", middleware.RequireAuth)
	apiTasks.POST("", tasks.CreateTaskHandler(db, rdb, wp))
	apiTasks.GET("", tasks.ListTasksHandler(db))
	apiTasks.GET("/:id", tasks.GetTaskHandler(db))
	apiTasks.PUT("/:id", tasks.UpdateTaskHandler(db, rdb, wp))
	apiTasks.DELETE("/:id", tasks.DeleteTaskHandler(db, rdb, wp))

	// 管理員專區
	apiAdmin := api.Group("/admin", middleware.RequireAdmin)
	apiAdmin.GET("/users", admin.ListUsersHandler(db))
	apiAdmin.PUT("/users/:id", admin.UpdateUserHandler(db, wp))
	apiAdmin.DELETE("/users/:id", admin.DeleteUserHandler(db, rdb, wp))
	apiAdmin.GET("/tasks", admin.ListAllTasksHandler(db))
	apiAdmin.POST("/tasks", admin.CreateTaskHandler(db, rdb, wp))
	apiAdmin.PATCH("/tasks/:id/assign", admin.AssignTaskHandler(db, rdb, wp))
	apiAdmin.DELETE("/tasks/:id", admin.DeleteTaskHandler(db, rdb, wp))
	apiAdmin.GET("/dashboard", admin.DashboardHandler(db, rdb))
}
