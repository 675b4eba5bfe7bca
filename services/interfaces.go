package services

import (
	"context"

	"personalization_api/models"
)

// PostStore 内容条目存储接口
type PostStore interface {
	// 查询已发布的候选文章；eligibleOnly 为 true 时只返回带定向属性的文章
	QueryEligible(ctx context.Context, eligibleOnly bool) ([]models.Post, error)

	// 按ID获取文章，不存在时返回 sql.ErrNoRows
	GetPost(ctx context.Context, id int64) (*models.Post, error)

	// 列出所有带定向属性的文章（任意状态）
	ListTargeted(ctx context.Context) ([]models.Post, error)
}

// AnalyticsRecorder 曝光/点击计数接口
// 约定：每次返回给调用方的响应（无论缓存命中与否），其中每篇文章记且只记一次曝光；
// 计数自增对单个文章ID原子，不同ID之间无顺序保证
type AnalyticsRecorder interface {
	RecordImpressions(ctx context.Context, ids []int64) error
	RecordClick(ctx context.Context, id int64) error
	GetImpressions(ctx context.Context, id int64) (int64, error)
	GetClicks(ctx context.Context, id int64) (int64, error)
	ListCounters(ctx context.Context) ([]models.PostStats, error)
}

// SettingsStore 键值设置存储接口
type SettingsStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
}
