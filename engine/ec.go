package engine

import "strings"

// ECRule 电导率经验系数规则：产品名包含任一模式即命中
type ECRule struct {
	Patterns    []string
	Coefficient float64
}

// ECRules 按优先级排列，先命中先用。个别产品名会同时命中多条
// 规则（比如含 "magnesium" 的复合肥），顺序不能乱动，否则同一个
// 名字前后两次算出的 EC 会不一样。
var ECRules = []ECRule{
	{Patterns: []string{"calcium nitrate", "nitrabor", "硝酸钙"}, Coefficient: 1.20},
	{Patterns: []string{"potassium nitrate", "kno3", "硝酸钾"}, Coefficient: 1.10},
	{Patterns: []string{"mono potassium phosphate", "kh2po4", "磷酸二氢钾"}, Coefficient: 0.90},
	{Patterns: []string{"potassium sulfate", "potassium sulphate", "k2so4", "硫酸钾"}, Coefficient: 0.80},
	{Patterns: []string{"magnesium", "epsom", "mgso4", "硫酸镁"}, Coefficient: 1.00},
	{Patterns: []string{"npk", "complete", "复合肥"}, Coefficient: 1.10},
}

// DefaultECCoefficient 未命中任何规则时的兜底系数
const DefaultECCoefficient = 1.00

// ECCoefficient 按产品名查 EC 经验系数（不区分大小写的子串匹配）。
// 这是一张经验表，不是离子电导率模型，别试图用真实化学去"修"它。
func ECCoefficient(name string) float64 {
	lower := strings.ToLower(name)
	for _, rule := range ECRules {
		for _, pat := range rule.Patterns {
			if strings.Contains(lower, pat) {
				return rule.Coefficient
			}
		}
	}
	return DefaultECCoefficient
}
