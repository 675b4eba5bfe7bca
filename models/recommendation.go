package models

// ScoredPost 打分后的候选文章，排序用未舍入分数，不持久化
type ScoredPost struct {
	Post  Post
	Score float64
}

// RecommendedPost 推荐结果中的单条内容
type RecommendedPost struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Excerpt    string  `json:"excerpt"`
	URL        string  `json:"url"`
	MatchScore float64 `json:"match_score"` // 展示用，保留2位小数
}

// RecommendationResponse 推荐接口响应，也是缓存单元
type RecommendationResponse struct {
	Posts   []RecommendedPost `json:"posts"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// PostIDs 响应中所有文章的ID，用于曝光计数
func (r *RecommendationResponse) PostIDs() []int64 {
	ids := make([]int64, 0, len(r.Posts))
	for _, p := range r.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}

// ClickRequest 点击上报请求体
type ClickRequest struct {
	PostID int64 `json:"post_id" example:"42"`
}

// ClickResponse 点击上报响应
type ClickResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PostStats 单篇文章的效果统计
type PostStats struct {
	PostID      int64    `json:"post_id"`
	Impressions int64    `json:"impressions"`
	Clicks      int64    `json:"clicks"`
	CTR         *float64 `json:"ctr"` // 无曝光时为null
}
