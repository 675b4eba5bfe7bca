package utils

import (
	"encoding/json"
	"net/http"

	"personalization_api/models"
)

// WriteJSON 按指定状态码写入JSON响应
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.Encode(data)
}

// WriteSuccessResponse 写入成功响应（带通用信封，供管理接口使用）
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, models.NewSuccessResponse(data))
}

// WriteErrorResponse 写入错误响应，HTTP状态码由错误码映射得出
func WriteErrorResponse(w http.ResponseWriter, code int, data interface{}) {
	WriteJSON(w, models.HTTPStatus(code), models.NewErrorResponse(code, data))
}

// WriteCustomErrorResponse 写入自定义错误消息的响应
func WriteCustomErrorResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	WriteJSON(w, models.HTTPStatus(code), models.NewCustomErrorResponse(code, message, data))
}
