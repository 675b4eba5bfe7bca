package repository

import (
	"context"
	"strings"

	"personalization_api/db"
	"personalization_api/models"
)

// 统计指标名
const (
	MetricImpression = "impression"
	MetricClick      = "click"
)

// AnalyticsRepo 基于MySQL的曝光/点击计数存储
// 计数行主键为 (post_id, metric)，自增通过 ON DUPLICATE KEY UPDATE 完成，
// 单条语句内原子，并发请求下不会丢失更新
type AnalyticsRepo struct{}

func NewAnalyticsRepo() *AnalyticsRepo {
	return &AnalyticsRepo{}
}

// RecordImpressions 为一组文章各记一次曝光
func (r *AnalyticsRepo) RecordImpressions(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		placeholders = append(placeholders, "(?, ?, 1)")
		args = append(args, id, MetricImpression)
	}

	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO post_counters (post_id, metric, cnt)
		VALUES `+strings.Join(placeholders, ", ")+`
		ON DUPLICATE KEY UPDATE cnt = cnt + 1
	`, args...)
	return err
}

// RecordClick 为指定文章记一次点击
func (r *AnalyticsRepo) RecordClick(ctx context.Context, id int64) error {
	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO post_counters (post_id, metric, cnt)
		VALUES (?, ?, 1)
		ON DUPLICATE KEY UPDATE cnt = cnt + 1
	`, id, MetricClick)
	return err
}

// GetImpressions 获取文章的曝光次数，无记录时为0
func (r *AnalyticsRepo) GetImpressions(ctx context.Context, id int64) (int64, error) {
	return r.getCount(ctx, id, MetricImpression)
}

// GetClicks 获取文章的点击次数，无记录时为0
func (r *AnalyticsRepo) GetClicks(ctx context.Context, id int64) (int64, error) {
	return r.getCount(ctx, id, MetricClick)
}

func (r *AnalyticsRepo) getCount(ctx context.Context, id int64, metric string) (int64, error) {
	var cnt int64
	err := db.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(cnt), 0)
		FROM post_counters
		WHERE post_id = ? AND metric = ?
	`, id, metric).Scan(&cnt)
	return cnt, err
}

// ListCounters 按文章汇总曝光和点击（最多100篇，ID倒序）
func (r *AnalyticsRepo) ListCounters(ctx context.Context) ([]models.PostStats, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT post_id,
			COALESCE(SUM(CASE WHEN metric = ? THEN cnt END), 0),
			COALESCE(SUM(CASE WHEN metric = ? THEN cnt END), 0)
		FROM post_counters
		GROUP BY post_id
		ORDER BY post_id DESC
		LIMIT 100
	`, MetricImpression, MetricClick)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.PostStats
	for rows.Next() {
		var s models.PostStats
		if err := rows.Scan(&s.PostID, &s.Impressions, &s.Clicks); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
