package admin

import (
	"encoding/json"
	"net/http"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/database"
	"taskboard/internal/service"
	"taskboard/internal/store"

	"github.com/labstack/echo/v4"
)

const recentEventsLimit = 10

var (
	countUsers            = store.CountUsers
	countTasks            = store.CountTasks
	listRecentAuditEvents = store.ListRecentAuditEvents
)

// @Summary     Admin dashboard
// @Description 管理員儀表板：統計數據（Redis 快取）與最近的異動紀錄
// @Tags        admin
// @Produce     json
// @Success     200 {object} api.DashboardResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /admin/dashboard [get]
func DashboardHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var stats api.DashboardStats
		cached, err := rdb.Get(ctx, service.StatsCacheKey).Result()
		if err == nil && json.Unmarshal([]byte(cached), &stats) == nil {
			// cache hit
		} else {
			users, err := countUsers(ctx, db)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
			tasks, err := countTasks(ctx, db)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
			stats = api.DashboardStats{Users: users, Tasks: tasks}
			if payload, err := json.Marshal(stats); err == nil {
				// 快取寫入失敗不影響回應
				rdb.Set(ctx, service.StatsCacheKey, payload, service.StatsCacheTTL)
			}
		}

		events, err := listRecentAuditEvents(ctx, db, recentEventsLimit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		recent := make([]api.AuditEventResponse, 0, len(events))
		for _, ev := range events {
			recent = append(recent, api.AuditEventResponse{
				ActorID:   ev.ActorID,
				Action:    ev.Action,
				Subject:   ev.Subject,
				CreatedAt: ev.CreatedAt,
			})
		}

		return c.JSON(http.StatusOK, api.DashboardResponse{
			Message: "Bienvenido, admin",
			Stats:   stats,
			Recent:  recent,
		})
	}
}
