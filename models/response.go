package models

import "net/http"

// 错误码定义
const (
	// 成功
	CodeSuccess = 0

	// 客户端错误 (1000-1999)
	CodeInvalidParams = 1000 // 无效的参数
	CodeMissingParams = 1001 // 缺少必要参数
	CodeUnauthorized  = 1002 // 未授权（API Key缺失或无效）
	CodePostNotFound  = 1003 // 文章不存在或未发布

	// 服务端错误 (2000-2999)
	CodeServerError   = 2000 // 服务器内部错误
	CodeDatabaseError = 2001 // 数据库错误
	CodeComputeError  = 2002 // 推荐计算错误
)

// 错误码对应的消息
var CodeMessages = map[int]string{
	CodeSuccess:       "success",
	CodeInvalidParams: "无效的参数",
	CodeMissingParams: "缺少必要参数",
	CodeUnauthorized:  "Invalid or missing API key",
	CodePostNotFound:  "文章不存在或未发布",
	CodeServerError:   "服务器内部错误",
	CodeDatabaseError: "数据库错误",
	CodeComputeError:  "推荐计算错误",
}

// 错误码到HTTP状态码的映射，未列出的按500处理
var codeStatus = map[int]int{
	CodeSuccess:       http.StatusOK,
	CodeInvalidParams: http.StatusBadRequest,
	CodeMissingParams: http.StatusBadRequest,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodePostNotFound:  http.StatusBadRequest,
}

// HTTPStatus 错误码对应的HTTP状态码
func HTTPStatus(code int) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    CodeSuccess,
		Message: CodeMessages[CodeSuccess],
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, data interface{}) APIResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "未知错误"
	}
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewCustomErrorResponse 创建自定义错误消息的响应
func NewCustomErrorResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
