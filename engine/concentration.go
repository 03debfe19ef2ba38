package engine

import (
	"math"
	"strings"

	"go-shuifeibao/models"
)

// MacroSymbols 大量元素符号，按标签习惯排列
var MacroSymbols = []string{"N", "P2O5", "K2O", "Ca", "Mg", "S"}

// MicroSymbols 微量元素符号
var MicroSymbols = []string{"Fe", "Mn", "Zn", "Cu", "B", "Mo"}

// g/L × (百分比/100) × 1000 mg/g = g/L × 百分比 × 10
const ppmPerPercentGram = 10

// MgOToMg 氧化镁折纯系数：Mg 摩尔质量 24.305 ÷ MgO 摩尔质量 40.304。
// 名称里带 MgO 的产品，标签上的镁含量按 %MgO 计，需折成元素镁。
const MgOToMg = 0.603

// 命中任一子串（不区分大小写）即认定镁含量为氧化镁口径
var mgOxidePatterns = []string{"mgo", "氧化镁"}

// NewPPMMap 返回全部 12 种养分均为 0 的 ppm 表，
// 结果里始终带齐全部键，打印和落库都不用再补
func NewPPMMap() map[string]float64 {
	ppm := make(map[string]float64, len(MacroSymbols)+len(MicroSymbols))
	for _, s := range MacroSymbols {
		ppm[s] = 0
	}
	for _, s := range MicroSymbols {
		ppm[s] = 0
	}
	return ppm
}

// percentValue 取标签百分比，nil 按 0 处理
func percentValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return ToNonNegativeNumber(*p)
}

// scaleMacroPercent 可选的小数占比容错：打开 autoScale 后，
// 0 到 1 之间的大量元素百分比按小数占比读（0.14 视作 14%）。
// 微量元素标签本来就常见 1% 以下，不走这条规则。
func scaleMacroPercent(p float64, autoScale bool) float64 {
	if autoScale && p > 0 && p < 1 {
		return p * 100
	}
	return p
}

// isMgOxideName 判断产品名是否表明镁按氧化物口径标注
func isMgOxideName(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range mgOxidePatterns {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	return false
}

// AccumulatePPM 把一个肥料在出水处浓度 gPerL (g/L) 下的养分贡献
// 累加进 ppm 表。引擎内部不做任何舍入。
func AccumulatePPM(ppm map[string]float64, gPerL float64, fert models.Fertilizer, autoScale bool) {
	gPerL = ToNonNegativeNumber(gPerL)

	mg := scaleMacroPercent(percentValue(fert.Macros.Mg), autoScale)
	if mg > 0 && isMgOxideName(fert.Name) {
		mg *= MgOToMg
	}

	macros := map[string]float64{
		"N":    scaleMacroPercent(percentValue(fert.Macros.N), autoScale),
		"P2O5": scaleMacroPercent(percentValue(fert.Macros.P2O5), autoScale),
		"K2O":  scaleMacroPercent(percentValue(fert.Macros.K2O), autoScale),
		"Ca":   scaleMacroPercent(percentValue(fert.Macros.Ca), autoScale),
		"Mg":   mg,
		"S":    scaleMacroPercent(percentValue(fert.Macros.S), autoScale),
	}
	micros := map[string]float64{
		"Fe": percentValue(fert.Micros.Fe),
		"Mn": percentValue(fert.Micros.Mn),
		"Zn": percentValue(fert.Micros.Zn),
		"Cu": percentValue(fert.Micros.Cu),
		"B":  percentValue(fert.Micros.B),
		"Mo": percentValue(fert.Micros.Mo),
	}

	for sym, pct := range macros {
		ppm[sym] += gPerL * pct * ppmPerPercentGram
	}
	for sym, pct := range micros {
		ppm[sym] += gPerL * pct * ppmPerPercentGram
	}
}

// DisplayPPM 按界面习惯对 ppm 做展示舍入：大量元素取整，
// 微量元素保留两位。只在出口处用，引擎内部永远是原始值。
func DisplayPPM(ppm map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(ppm))
	for _, sym := range MacroSymbols {
		out[sym] = math.Round(ppm[sym])
	}
	for _, sym := range MicroSymbols {
		out[sym] = math.Round(ppm[sym]*100) / 100
	}
	return out
}
