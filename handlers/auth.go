package handlers

import (
	"net/http"

	"personalization_api/logger"
	"personalization_api/models"
	"personalization_api/services"
	"personalization_api/utils"
)

// RequireAPIKey 共享密钥鉴权中间件
// 密钥从 X-API-Key 请求头读取，缺失时回退到 api_key 查询参数；
// 比较为常数时间。未授权请求记警告日志并返回401，不会进入打分流程。
func RequireAPIKey(keys *services.APIKeyService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}

			if !keys.Verify(key) {
				logger.Warn("REST API unauthorized access attempt",
					"path", r.URL.Path, "remote", r.RemoteAddr)
				utils.WriteErrorResponse(w, models.CodeUnauthorized, map[string]interface{}{})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
