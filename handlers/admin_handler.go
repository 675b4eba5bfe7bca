package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"personalization_api/models"
	"personalization_api/utils"
)

// ListAnalyticsHandler godoc
// @Summary 全部文章的效果统计
// @Description 按文章汇总曝光、点击和CTR（最多100篇）
// @Tags 管理
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 401 {object} models.APIResponse "未授权"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /admin/analytics [get]
func (api *API) ListAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := api.Analytics.ListStats(r.Context())
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, stats)
}

// GetPostAnalyticsHandler godoc
// @Summary 单篇文章的效果统计
// @Description 获取指定文章的曝光、点击和CTR，CTR在无曝光时为null
// @Tags 管理
// @Produce json
// @Param post_id path int true "文章ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 401 {object} models.APIResponse "未授权"
// @Router /admin/analytics/{post_id} [get]
func (api *API) GetPostAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "post_id"), 10, 64)
	if err != nil || postID < 1 {
		utils.WriteErrorResponse(w, models.CodeInvalidParams, map[string]interface{}{
			"param": "post_id",
		})
		return
	}

	stats, err := api.Analytics.GetStats(r.Context(), postID)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, stats)
}

// RotateAPIKeyHandler godoc
// @Summary 轮换API密钥
// @Description 生成并启用新的64位十六进制密钥，同时清空整个推荐缓存；完整密钥只在本次响应中出现一次
// @Tags 管理
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 401 {object} models.APIResponse "未授权"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /admin/api-key/rotate [post]
func (api *API) RotateAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	key, err := api.Keys.Rotate(r.Context())
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeServerError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, models.APIKeyResponse{APIKey: key})
}

// ListAudienceHandler godoc
// @Summary 受众定向列表
// @Description 列出所有带定向属性的文章及其定向标签（任意发布状态）
// @Tags 管理
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 401 {object} models.APIResponse "未授权"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /admin/audience [get]
func (api *API) ListAudienceHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := api.Store.ListTargeted(r.Context())
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}

	audience := make([]models.AudiencePost, 0, len(posts))
	for _, p := range posts {
		audience = append(audience, models.AudiencePost{
			ID:          p.ID,
			Title:       p.Title,
			Status:      p.Status,
			Industry:    p.Industry,
			CompanySize: p.CompanySize,
			Role:        p.Role,
		})
	}
	utils.WriteSuccessResponse(w, audience)
}
