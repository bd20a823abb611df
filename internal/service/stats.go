// File: internal/service/stats.go
package service

import (
	"context"
	"time"

	"taskboard/internal/cache"
	"taskboard/internal/worker"
)

// StatsCacheKey 儀表板統計的快取鍵
const StatsCacheKey = "dashboard:stats"

// StatsCacheTTL 統計快取有效期限
const StatsCacheTTL = 30 * time.Second

// InvalidateStatsCache 在資料異動後非同步清除統計快取
func InvalidateStatsCache(wp worker.Pool, rdb cache.Cache) {
	wp.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()
		rdb.Del(ctx, StatsCacheKey)
	})
}
