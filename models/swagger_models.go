package models

// APIResponse 通用API错误/管理接口响应
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// APIKeyResponse 密钥轮换响应
type APIKeyResponse struct {
	APIKey string `json:"api_key" example:"3f7a…(64位十六进制)"`
}

// AudiencePost 受众定向列表中的文章条目
type AudiencePost struct {
	ID          int64  `json:"id" example:"42"`
	Title       string `json:"title" example:"Scaling for the enterprise"`
	Status      string `json:"status" example:"publish"`
	Industry    string `json:"industry,omitempty" example:"technology,finance"`
	CompanySize string `json:"company_size,omitempty" example:"enterprise"`
	Role        string `json:"role,omitempty" example:"developer"`
}
