package services

import (
	"context"

	"personalization_api/models"
)

// AnalyticsService 效果统计查询：单篇计数、CTR和汇总列表
type AnalyticsService struct {
	recorder AnalyticsRecorder
}

func NewAnalyticsService(recorder AnalyticsRecorder) *AnalyticsService {
	return &AnalyticsService{recorder: recorder}
}

// GetCTR 文章的点击率，无曝光时第二个返回值为 false
func (s *AnalyticsService) GetCTR(ctx context.Context, postID int64) (float64, bool, error) {
	impressions, err := s.recorder.GetImpressions(ctx, postID)
	if err != nil {
		return 0, false, err
	}
	if impressions <= 0 {
		return 0, false, nil
	}
	clicks, err := s.recorder.GetClicks(ctx, postID)
	if err != nil {
		return 0, false, err
	}
	return float64(clicks) / float64(impressions), true, nil
}

// GetStats 单篇文章的完整统计
func (s *AnalyticsService) GetStats(ctx context.Context, postID int64) (*models.PostStats, error) {
	impressions, err := s.recorder.GetImpressions(ctx, postID)
	if err != nil {
		return nil, err
	}
	clicks, err := s.recorder.GetClicks(ctx, postID)
	if err != nil {
		return nil, err
	}

	stats := &models.PostStats{
		PostID:      postID,
		Impressions: impressions,
		Clicks:      clicks,
	}
	if impressions > 0 {
		ctr := float64(clicks) / float64(impressions)
		stats.CTR = &ctr
	}
	return stats, nil
}

// ListStats 全部文章的统计汇总（管理端列表）
func (s *AnalyticsService) ListStats(ctx context.Context) ([]models.PostStats, error) {
	stats, err := s.recorder.ListCounters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		if stats[i].Impressions > 0 {
			ctr := float64(stats[i].Clicks) / float64(stats[i].Impressions)
			stats[i].CTR = &ctr
		}
	}
	return stats, nil
}
