package services

import "personalization_api/models"

// MatchScore 计算请求方属性集和文章定向属性集的匹配分数
// 返回分数 [0,1] 和参与比较的属性数 compared
//
// 对注册表中的每个属性：请求方给了非空值则计入分母；文章和请求方在该属性上
// 存在任一（大小写不敏感、去空格后）相同备选项则计入分子。
// 请求方未指定的属性完全跳过，既不计分母也不计分子。
// compared == 0 时分数为 0.0，语义是"未表达偏好"而非"最差匹配"，
// 下游通过 compared 区分这两种情况，不通过分数值。
// 纯函数，无副作用。文章没有任何定向属性时照常参与打分（得0分），不被排除。
func MatchScore(requester, item models.AttributeSet) (score float64, compared int) {
	matched := 0
	for _, name := range models.AttributeNames {
		userVals := requester.Values(name)
		if len(userVals) == 0 {
			continue
		}
		compared++
		if models.Overlaps(userVals, item.Values(name)) {
			matched++
		}
	}

	if compared == 0 {
		return 0.0, 0
	}
	return float64(matched) / float64(compared), compared
}
