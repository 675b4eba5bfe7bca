package models

import "time"

// 文章发布状态
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Post 内容条目，定向属性由内容作者维护，本服务只读
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	Status      string    `json:"status"`
	PublishedAt time.Time `json:"published_at"`

	// 定向标签（原始逗号分隔形式，按注册表属性名存储）
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Role        string `json:"role,omitempty"`
}

// Targeting 文章的定向属性集
func (p Post) Targeting() AttributeSet {
	return NewAttributeSet(map[string]string{
		AttrIndustry:    p.Industry,
		AttrCompanySize: p.CompanySize,
		AttrRole:        p.Role,
	})
}

// HasTargeting 文章是否带有至少一个非空定向属性
func (p Post) HasTargeting() bool {
	return p.Targeting().Count() > 0
}

// IsPublished 文章是否已发布
func (p Post) IsPublished() bool {
	return p.Status == StatusPublish
}
