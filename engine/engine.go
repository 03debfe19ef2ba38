// Package engine 是水肥计算核心：把（肥料成分、用量、桶体积、
// 配比方式、施肥方式）变换为出水处养分浓度 ppm、EC 估算值和成本。
// 全部为纯函数，不碰外部资源，同样的输入永远得到同样的输出，
// 前端每敲一个键重算一次也没问题。
package engine

import (
	"go-shuifeibao/models"
)

// DoseLine 一行配肥：某个肥料加多少。Amount 的含义由
// MixConfig 的 DosingMode 和 WeightUnit 决定。
type DoseLine struct {
	FertilizerID int64        `json:"fertilizerId"`
	Amount       LenientFloat `json:"amount"`
}

// MixConfig 一次计算中所有剂量行共享的上下文
type MixConfig struct {
	VesselVolumeL    float64 `json:"vesselVolumeL"`    // 直接模式为田间桶体积，母液模式为母液桶体积
	DosingMode       string  `json:"dosingMode"`       // total_in_vessel / per_liter
	WeightUnit       string  `json:"weightUnit"`       // g / kg
	Topology         string  `json:"topology"`         // direct / stock_injector
	InjectorRatio    float64 `json:"injectorRatio"`    // 1 份母液兑 N 份水，小于 1 按 1 算
	ECScale          float64 `json:"ecScale"`          // EC 校准系数，≤0 时用默认 1.10
	AutoScalePercent bool    `json:"autoScalePercent"` // 0~1 的大量元素百分比按小数占比读
}

// LineResult 单行计算结果，字段齐到可以不加工直接落配方快照
type LineResult struct {
	FertilizerID   int64   `json:"fertilizerId"`
	FertilizerName string  `json:"fertilizerName"`
	TotalGrams     float64 `json:"totalGrams"`     // 实际消耗克数（母液模式为加入母液桶的量）
	DeliveredGPerL float64 `json:"deliveredGPerL"` // 出水处每升克数
	Cost           float64 `json:"cost"`
}

// Result 计算结果
type Result struct {
	PPM          map[string]float64 `json:"ppm"`        // mg/L，出水处口径
	ECEstimate   float64            `json:"ecEstimate"` // mS/cm
	CostPerBatch float64            `json:"costPerBatch"`
	Lines        []LineResult       `json:"lines"`
}

// Compute 对一组剂量行做一次完整计算。引用了不存在肥料的行
// 整行跳过，不报错。两种施肥方式只差一步：母液模式先按母液桶
// 体积折每升克数，再除以注肥器稀释比得到出水处浓度；之后的
// ppm、EC 计算对两种方式完全一样。
func Compute(lines []DoseLine, fertilizers map[int64]models.Fertilizer, cfg MixConfig) Result {
	res := Result{PPM: NewPPMMap()}

	ratio := cfg.InjectorRatio
	if ratio < 1 {
		ratio = 1
	}
	ecScale := cfg.ECScale
	if ecScale <= 0 {
		ecScale = DefaultECScale
	}

	var ecSum float64
	for _, line := range lines {
		fert, ok := fertilizers[line.FertilizerID]
		if !ok {
			continue
		}

		amount := float64(line.Amount)
		delivered := CanonicalGramsPerLiter(amount, cfg)
		if cfg.Topology == TopologyStockInjector {
			delivered /= ratio
		}

		AccumulatePPM(res.PPM, delivered, fert, cfg.AutoScalePercent)
		ecSum += delivered * ECCoefficient(fert.Name)

		totalGrams := ConsumedGrams(amount, cfg)
		cost := LineCost(totalGrams, fert.BagSizeKg, fert.PricePerBag)
		res.CostPerBatch += cost

		res.Lines = append(res.Lines, LineResult{
			FertilizerID:   fert.ID,
			FertilizerName: fert.Name,
			TotalGrams:     totalGrams,
			DeliveredGPerL: delivered,
			Cost:           cost,
		})
	}

	res.ECEstimate = ecScale * ecSum
	return res
}
