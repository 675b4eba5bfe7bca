package repository

import (
	"context"
	"sort"
	"sync"

	"personalization_api/models"
)

// MemoryAnalytics 进程内的曝光/点击计数存储（analytics.driver = memory）
// 所有自增在互斥锁内完成，并发请求下不丢失更新
type MemoryAnalytics struct {
	mu          sync.Mutex
	impressions map[int64]int64
	clicks      map[int64]int64
}

func NewMemoryAnalytics() *MemoryAnalytics {
	return &MemoryAnalytics{
		impressions: make(map[int64]int64),
		clicks:      make(map[int64]int64),
	}
}

// RecordImpressions 为一组文章各记一次曝光
func (m *MemoryAnalytics) RecordImpressions(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if id > 0 {
			m.impressions[id]++
		}
	}
	return nil
}

// RecordClick 为指定文章记一次点击
func (m *MemoryAnalytics) RecordClick(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks[id]++
	return nil
}

// GetImpressions 获取文章的曝光次数
func (m *MemoryAnalytics) GetImpressions(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.impressions[id], nil
}

// GetClicks 获取文章的点击次数
func (m *MemoryAnalytics) GetClicks(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clicks[id], nil
}

// ListCounters 按文章汇总曝光和点击，ID倒序
func (m *MemoryAnalytics) ListCounters(ctx context.Context) ([]models.PostStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int64]bool, len(m.impressions)+len(m.clicks))
	var ids []int64
	for id := range m.impressions {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	for id := range m.clicks {
		if !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	stats := make([]models.PostStats, 0, len(ids))
	for _, id := range ids {
		stats = append(stats, models.PostStats{
			PostID:      id,
			Impressions: m.impressions[id],
			Clicks:      m.clicks[id],
		})
	}
	return stats, nil
}
