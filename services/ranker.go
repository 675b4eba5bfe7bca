package services

import (
	"sort"

	"personalization_api/models"
)

// Rank 对候选文章排序并分页，返回当前页条目和分页前的总数
//
// 模式由请求方是否给出非空属性决定（信号是属性数，不是分数）：
//   - 无属性：按发布时间倒序（无筛选模式），分数统一为0.0仅作展示，
//     候选池应只含带定向属性的已发布文章，无定向标签的文章整体排除；
//   - 有属性：所有已发布候选（包括完全没有定向标签的）逐一打分并参与排序，
//     按未舍入分数降序，同分保持输入顺序（稳定排序），不按分数排除任何文章。
//
// 候选为空时返回 total=0 和空列表，不是错误。
func Rank(candidates []models.Post, requester models.AttributeSet, page, perPage int) ([]models.ScoredPost, int) {
	scored := make([]models.ScoredPost, 0, len(candidates))

	if requester.Count() == 0 {
		// 无筛选模式：近期优先。仓储层已按发布时间倒序返回，这里不依赖该顺序，自行排序
		for _, p := range candidates {
			if !p.HasTargeting() {
				continue
			}
			scored = append(scored, models.ScoredPost{Post: p, Score: 0.0})
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Post.PublishedAt.After(scored[j].Post.PublishedAt)
		})
	} else {
		for _, p := range candidates {
			s, _ := MatchScore(requester, p.Targeting())
			scored = append(scored, models.ScoredPost{Post: p, Score: s})
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
	}

	total := len(scored)
	return paginate(scored, page, perPage), total
}

// paginate 标准偏移分页：offset = (page-1)*perPage
func paginate(items []models.ScoredPost, page, perPage int) []models.ScoredPost {
	offset := (page - 1) * perPage
	if offset >= len(items) {
		return nil
	}
	end := offset + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
