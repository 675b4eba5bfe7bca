package models

import "strings"

// 受众属性名注册表。匹配、排序和缓存键派生都按此顺序遍历，
// 新增属性只需在这里追加名字。
const (
	AttrIndustry    = "industry"
	AttrCompanySize = "company_size"
	AttrRole        = "role"
)

// AttributeNames 固定属性注册表（有序）
var AttributeNames = []string{AttrIndustry, AttrCompanySize, AttrRole}

// AttributeSet 一组受众定向属性
// 每个属性的值是小写、去空格、去重后的备选项集合，逗号分隔输入按"任一匹配"语义拆分
type AttributeSet struct {
	values map[string][]string
}

// NewAttributeSet 从原始输入构建属性集，未注册的属性名被忽略
func NewAttributeSet(raw map[string]string) AttributeSet {
	set := AttributeSet{values: make(map[string][]string, len(AttributeNames))}
	for _, name := range AttributeNames {
		if v, ok := raw[name]; ok {
			set.values[name] = ParseAttributeValue(v)
		}
	}
	return set
}

// ParseAttributeValue 将逗号分隔的原始值拆分为小写、去空格、去重的备选项列表
func ParseAttributeValue(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]bool, len(parts))
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && !seen[p] {
			result = append(result, p)
			seen[p] = true
		}
	}
	return result
}

// Values 返回指定属性的备选项列表，未设置时为空
func (a AttributeSet) Values(name string) []string {
	if a.values == nil {
		return nil
	}
	return a.values[name]
}

// Has 指定属性是否有非空值
func (a AttributeSet) Has(name string) bool {
	return len(a.Values(name)) > 0
}

// Count 非空属性的数量，用于排序模式选择和"无偏好"哨兵判断
func (a AttributeSet) Count() int {
	n := 0
	for _, name := range AttributeNames {
		if a.Has(name) {
			n++
		}
	}
	return n
}

// Overlaps 两个备选项列表是否存在交集（值已在解析时归一化）
func Overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if set[v] {
			return true
		}
	}
	return false
}
