package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"personalization_api/logger"
	"personalization_api/models"
	"personalization_api/utils"
)

// ErrPostNotPublished 点击上报的文章不存在或未发布
var ErrPostNotPublished = errors.New("post not found or not published")

// 摘要截断的单词数
const excerptWords = 25

// RecommendationService 推荐流程编排：归一化请求 → 查缓存 → 未命中则取候选、
// 打分排序、写缓存 → 记曝光
type RecommendationService struct {
	store          PostStore
	analytics      AnalyticsRecorder
	cache          *RecommendationCache
	defaultPerPage int
	maxPerPage     int
}

func NewRecommendationService(store PostStore, analytics AnalyticsRecorder, cache *RecommendationCache, defaultPerPage, maxPerPage int) *RecommendationService {
	if defaultPerPage <= 0 {
		defaultPerPage = 10
	}
	if maxPerPage <= 0 {
		maxPerPage = 50
	}
	return &RecommendationService{
		store:          store,
		analytics:      analytics,
		cache:          cache,
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
	}
}

// Cache 推荐结果缓存（密钥轮换时供外部触发清空）
func (s *RecommendationService) Cache() *RecommendationCache {
	return s.cache
}

// GetRecommendations 获取推荐内容
// 分页参数越界时钳位修正而不报错；存储查询失败时整个请求失败，
// 不写缓存也不记曝光。缓存命中同样记曝光，命中不豁免统计。
func (s *RecommendationService) GetRecommendations(ctx context.Context, rawAttrs map[string]string, perPage, page int) (*models.RecommendationResponse, error) {
	perPage, page = s.clampPagination(perPage, page)
	attrs := models.NewAttributeSet(rawAttrs)

	key := s.cache.Key(attrs, perPage, page)
	if cached, ok := s.cache.Get(key); ok {
		logger.Debug("Recommendation cache hit", "key", key)
		s.recordImpressions(ctx, cached)
		return cached, nil
	}

	// 无筛选模式下候选池预先限定为带定向属性的文章
	eligibleOnly := attrs.Count() == 0
	candidates, err := s.store.QueryEligible(ctx, eligibleOnly)
	if err != nil {
		logger.Error("Recommendations computation failed", "error", err)
		return nil, fmt.Errorf("query eligible posts: %w", err)
	}

	scored, total := Rank(candidates, attrs, page, perPage)
	resp := buildResponse(scored, total, page, perPage)

	s.cache.Set(key, resp)
	s.recordImpressions(ctx, resp)

	logger.Info("Recommendations computed", "total", total, "returned", len(resp.Posts),
		"attributes", attrs.Count(), "page", page, "per_page", perPage)
	return resp, nil
}

// RecordClick 点击上报，文章未发布或不存在时返回 ErrPostNotPublished，不计数
func (s *RecommendationService) RecordClick(ctx context.Context, postID int64) error {
	if postID < 1 {
		return ErrPostNotPublished
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if utils.IsSQLNoRowsError(err) {
			return ErrPostNotPublished
		}
		return fmt.Errorf("get post %d: %w", postID, err)
	}
	if !post.IsPublished() {
		return ErrPostNotPublished
	}

	return s.analytics.RecordClick(ctx, postID)
}

// clampPagination 钳位分页参数：per_page ∈ [1, max]，page ≥ 1
func (s *RecommendationService) clampPagination(perPage, page int) (int, int) {
	if perPage <= 0 {
		perPage = s.defaultPerPage
	}
	if perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}
	if page < 1 {
		page = 1
	}
	return perPage, page
}

// recordImpressions 为响应中的每篇文章记一次曝光
// 统计失败不影响响应返回，只记日志
func (s *RecommendationService) recordImpressions(ctx context.Context, resp *models.RecommendationResponse) {
	ids := resp.PostIDs()
	if len(ids) == 0 {
		return
	}
	if err := s.analytics.RecordImpressions(ctx, ids); err != nil {
		logger.Error("Failed to record impressions", "count", len(ids), "error", err)
	}
}

func buildResponse(scored []models.ScoredPost, total, page, perPage int) *models.RecommendationResponse {
	posts := make([]models.RecommendedPost, 0, len(scored))
	for _, sp := range scored {
		posts = append(posts, models.RecommendedPost{
			ID:         sp.Post.ID,
			Title:      sp.Post.Title,
			Excerpt:    postExcerpt(sp.Post),
			URL:        sp.Post.URL,
			MatchScore: roundScore(sp.Score),
		})
	}
	return &models.RecommendationResponse{
		Posts:   posts,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

// postExcerpt 优先使用作者填写的摘要，否则从正文截取
func postExcerpt(p models.Post) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	return trimWords(p.Content, excerptWords)
}

// trimWords 截取前n个单词，超出部分以省略号结尾
func trimWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}

// roundScore 展示分数保留2位小数，排序始终使用未舍入分数
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
