package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// 配比方式
const (
	DosingModeTotal    = "total_in_vessel" // 输入为桶内投放总量
	DosingModePerLiter = "per_liter"       // 输入为每升水用量
)

// 重量单位，内部统一折算为克
const (
	WeightUnitGram     = "g"
	WeightUnitKilogram = "kg"
)

// 施肥方式
const (
	TopologyDirect        = "direct"         // 直接入田间桶
	TopologyStockInjector = "stock_injector" // 母液桶经注肥器稀释
)

// DefaultECScale EC 估算的默认校准系数
const DefaultECScale = 1.10

// ToNonNegativeNumber 将数值输入收敛为非负有限数。
// NaN、±Inf、负数一律按 0 处理：没填就是没加，不报错。
func ToNonNegativeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseAmount 解析用户输入的数量文本，解析失败按 0 处理
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return ToNonNegativeNumber(v)
}

// LenientFloat 宽松数值。前端传来的用量字段既可能是数字也可能是
// 字符串（甚至是空串），解析不了的内容一律按 0 处理，从不报错。
type LenientFloat float64

func (f *LenientFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			*f = 0
			return nil
		}
		*f = LenientFloat(ParseAmount(str))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = LenientFloat(ToNonNegativeNumber(v))
	return nil
}

// AmountGrams 把剂量行的数量折算为克
func AmountGrams(amount float64, weightUnit string) float64 {
	g := ToNonNegativeNumber(amount)
	if weightUnit == WeightUnitKilogram {
		g *= 1000
	}
	return g
}

// CanonicalGramsPerLiter 计算入液处每升水的克数，这是后面所有
// 浓度计算的统一口径。total_in_vessel 模式下桶体积 ≤ 0 时直接
// 返回 0，不做除零。
func CanonicalGramsPerLiter(amount float64, cfg MixConfig) float64 {
	g := AmountGrams(amount, cfg.WeightUnit)
	if cfg.DosingMode == DosingModePerLiter {
		return g
	}
	if cfg.VesselVolumeL <= 0 {
		return 0
	}
	return g / cfg.VesselVolumeL
}
