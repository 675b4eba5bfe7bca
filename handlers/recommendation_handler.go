package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "personalization_api/docs" // 导入 swagger 文档
	"personalization_api/models"
	"personalization_api/services"
	"personalization_api/utils"
)

// API 聚合HTTP层依赖的服务实例，进程启动时构造一次
type API struct {
	Recommendations *services.RecommendationService
	Analytics       *services.AnalyticsService
	Keys            *services.APIKeyService
	Store           services.PostStore
}

// GetRecommendationsHandler godoc
// @Summary 获取个性化推荐内容
// @Description 根据请求方声明的受众属性（行业、公司规模、角色）打分排序返回已发布内容，结果缓存5分钟
// @Tags 推荐
// @Produce json
// @Param industry query string false "行业，逗号分隔多个备选值"
// @Param company_size query string false "公司规模，逗号分隔多个备选值"
// @Param role query string false "角色，逗号分隔多个备选值"
// @Param per_page query int false "每页条数 (1-50)" default(10)
// @Param page query int false "页码 (>=1)" default(1)
// @Param api_key query string false "API密钥（也可通过X-API-Key请求头传递）"
// @Success 200 {object} models.RecommendationResponse "成功"
// @Failure 401 {object} models.APIResponse "未授权"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /recommendations [get]
func (api *API) GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawAttrs := make(map[string]string, len(models.AttributeNames))
	for _, name := range models.AttributeNames {
		if v := q.Get(name); v != "" {
			rawAttrs[name] = v
		}
	}

	// 非法数字按0处理，由服务层钳位到默认值
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	page, _ := strconv.Atoi(q.Get("page"))

	resp, err := api.Recommendations.GetRecommendations(r.Context(), rawAttrs, perPage, page)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeComputeError, err.Error(), map[string]interface{}{})
		return
	}

	// 线上契约：推荐响应不包信封
	utils.WriteJSON(w, http.StatusOK, resp)
}

// RecordClickHandler godoc
// @Summary 上报一次内容点击
// @Description 为指定文章记一次点击，文章必须存在且已发布
// @Tags 统计
// @Accept json
// @Produce json
// @Param body body models.ClickRequest true "点击信息"
// @Success 200 {object} models.ClickResponse "成功"
// @Failure 400 {object} models.ClickResponse "文章不存在或未发布"
// @Failure 401 {object} models.APIResponse "未授权"
// @Router /record-click [post]
func (api *API) RecordClickHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, models.ClickResponse{Success: false, Message: "Invalid request body."})
		return
	}

	if err := api.Recommendations.RecordClick(r.Context(), req.PostID); err != nil {
		if errors.Is(err, services.ErrPostNotPublished) {
			utils.WriteJSON(w, http.StatusBadRequest, models.ClickResponse{Success: false, Message: "Invalid post."})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, models.ClickResponse{Success: false, Message: err.Error()})
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.ClickResponse{Success: true})
}

// RegisterRoutes 注册全部路由
// 业务和管理接口都在共享密钥鉴权之后，swagger文档不需要鉴权
func RegisterRoutes(r *chi.Mux, api *API) {
	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))

	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(api.Keys))

		r.Get("/recommendations", api.GetRecommendationsHandler)
		r.Post("/record-click", api.RecordClickHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/analytics", api.ListAnalyticsHandler)
			r.Get("/analytics/{post_id}", api.GetPostAnalyticsHandler)
			r.Post("/api-key/rotate", api.RotateAPIKeyHandler)
			r.Get("/audience", api.ListAudienceHandler)
		})
	})
}
