package engine

import (
	"math"
	"reflect"
	"testing"

	"go-shuifeibao/models"
)

func sampleFertilizers() map[int64]models.Fertilizer {
	return map[int64]models.Fertilizer{
		1: {
			ID:          1,
			Name:        "Calcium Nitrate",
			BagSizeKg:   fptr(25),
			PricePerBag: fptr(50),
			Macros:      models.MacroNutrients{N: fptr(15.5), Ca: fptr(19)},
		},
		2: {
			ID:          2,
			Name:        "Mono Potassium Phosphate",
			BagSizeKg:   fptr(25),
			PricePerBag: fptr(120),
			Macros:      models.MacroNutrients{P2O5: fptr(52), K2O: fptr(34)},
		},
		3: {
			ID:     3,
			Name:   "Chelated Iron EDDHA",
			Micros: models.MicroNutrients{Fe: fptr(6)},
		},
	}
}

func directConfig() MixConfig {
	return MixConfig{
		VesselVolumeL: 100,
		DosingMode:    DosingModeTotal,
		WeightUnit:    WeightUnitGram,
		Topology:      TopologyDirect,
		ECScale:       1.10,
	}
}

// 同样的输入必须得到完全一致的输出，结果可以放心按输入元组缓存
func TestComputeDeterministic(t *testing.T) {
	lines := []DoseLine{
		{FertilizerID: 1, Amount: 500},
		{FertilizerID: 2, Amount: 200},
		{FertilizerID: 3, Amount: 30},
	}
	ferts := sampleFertilizers()
	cfg := directConfig()

	first := Compute(lines, ferts, cfg)
	second := Compute(lines, ferts, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// 桶体积为 0 时所有每升口径一律为 0，结果里不允许出现 NaN/Inf
func TestComputeZeroVolumeSafety(t *testing.T) {
	lines := []DoseLine{{FertilizerID: 1, Amount: 500}}
	cfg := directConfig()
	cfg.VesselVolumeL = 0

	res := Compute(lines, sampleFertilizers(), cfg)

	for sym, v := range res.PPM {
		if v != 0 {
			t.Errorf("ppm[%s] = %v, want 0", sym, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("ppm[%s] is non-finite: %v", sym, v)
		}
	}
	if res.ECEstimate != 0 {
		t.Errorf("ECEstimate = %v, want 0", res.ECEstimate)
	}
	if math.IsNaN(res.CostPerBatch) || math.IsInf(res.CostPerBatch, 0) {
		t.Errorf("CostPerBatch is non-finite: %v", res.CostPerBatch)
	}
	// 总量模式下体积为 0 不影响消耗量，成本照算
	if !almostEqual(res.CostPerBatch, 500*(50.0/25000)) {
		t.Errorf("CostPerBatch = %v, want 1.0", res.CostPerBatch)
	}
}

// 5 克和 0.005 千克是同一回事，ppm 和成本都得一样
func TestUnitToggleInvariance(t *testing.T) {
	ferts := sampleFertilizers()

	cfgG := directConfig()
	cfgG.WeightUnit = WeightUnitGram
	resG := Compute([]DoseLine{{FertilizerID: 1, Amount: 5}}, ferts, cfgG)

	cfgKg := directConfig()
	cfgKg.WeightUnit = WeightUnitKilogram
	resKg := Compute([]DoseLine{{FertilizerID: 1, Amount: 0.005}}, ferts, cfgKg)

	for sym := range resG.PPM {
		if !almostEqual(resG.PPM[sym], resKg.PPM[sym]) {
			t.Errorf("ppm[%s]: g=%v kg=%v", sym, resG.PPM[sym], resKg.PPM[sym])
		}
	}
	if !almostEqual(resG.CostPerBatch, resKg.CostPerBatch) {
		t.Errorf("cost: g=%v kg=%v", resG.CostPerBatch, resKg.CostPerBatch)
	}
	if !almostEqual(resG.ECEstimate, resKg.ECEstimate) {
		t.Errorf("ec: g=%v kg=%v", resG.ECEstimate, resKg.ECEstimate)
	}
}

// 母液桶 100L、稀释比 1:200、投 2000g、N 15%：
// 母液 20 g/L，出水 0.1 g/L，N = 0.1×15×10 = 15 ppm
func TestStockInjectorDilution(t *testing.T) {
	ferts := map[int64]models.Fertilizer{
		1: {ID: 1, Name: "Stock Mix", Macros: models.MacroNutrients{N: fptr(15)}},
	}
	cfg := MixConfig{
		VesselVolumeL: 100,
		DosingMode:    DosingModeTotal,
		WeightUnit:    WeightUnitGram,
		Topology:      TopologyStockInjector,
		InjectorRatio: 200,
	}

	res := Compute([]DoseLine{{FertilizerID: 1, Amount: 2000}}, ferts, cfg)

	if !almostEqual(res.PPM["N"], 15) {
		t.Errorf("ppm[N] = %v, want 15", res.PPM["N"])
	}
	if len(res.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(res.Lines))
	}
	if !almostEqual(res.Lines[0].DeliveredGPerL, 0.1) {
		t.Errorf("DeliveredGPerL = %v, want 0.1", res.Lines[0].DeliveredGPerL)
	}
	// 成本按加入母液桶的量计，稀释比不参与
	if !almostEqual(res.Lines[0].TotalGrams, 2000) {
		t.Errorf("TotalGrams = %v, want 2000", res.Lines[0].TotalGrams)
	}
}

func TestInjectorRatioClampedToOne(t *testing.T) {
	ferts := map[int64]models.Fertilizer{
		1: {ID: 1, Name: "Stock Mix", Macros: models.MacroNutrients{N: fptr(15)}},
	}
	cfg := MixConfig{
		VesselVolumeL: 100,
		DosingMode:    DosingModeTotal,
		WeightUnit:    WeightUnitGram,
		Topology:      TopologyStockInjector,
		InjectorRatio: 0.5, // 低于 1 按 1 算
	}

	res := Compute([]DoseLine{{FertilizerID: 1, Amount: 2000}}, ferts, cfg)
	if !almostEqual(res.Lines[0].DeliveredGPerL, 20) {
		t.Errorf("DeliveredGPerL = %v, want 20 (undiluted)", res.Lines[0].DeliveredGPerL)
	}
}

// 同一个物理剂量，不管按总量还是按每升表达，成本必须一样
func TestCostIndependentOfDosingMode(t *testing.T) {
	ferts := sampleFertilizers()

	cfgTotal := directConfig()
	cfgTotal.DosingMode = DosingModeTotal
	resTotal := Compute([]DoseLine{{FertilizerID: 1, Amount: 500}}, ferts, cfgTotal)

	cfgPerL := directConfig()
	cfgPerL.DosingMode = DosingModePerLiter
	resPerL := Compute([]DoseLine{{FertilizerID: 1, Amount: 5}}, ferts, cfgPerL)

	if !almostEqual(resTotal.CostPerBatch, 1.0) {
		t.Errorf("total mode cost = %v, want 1.0", resTotal.CostPerBatch)
	}
	if !almostEqual(resPerL.CostPerBatch, 1.0) {
		t.Errorf("per liter mode cost = %v, want 1.0", resPerL.CostPerBatch)
	}
}

// 缺袋价的产品成本记 0，但 ppm 照常累加
func TestMissingPriceStillContributesPPM(t *testing.T) {
	ferts := sampleFertilizers()
	res := Compute([]DoseLine{{FertilizerID: 3, Amount: 100}}, ferts, directConfig())

	if res.CostPerBatch != 0 {
		t.Errorf("CostPerBatch = %v, want 0", res.CostPerBatch)
	}
	// 100g / 100L = 1 g/L，Fe 6% → 60 ppm
	if !almostEqual(res.PPM["Fe"], 60) {
		t.Errorf("ppm[Fe] = %v, want 60", res.PPM["Fe"])
	}
}

// 引用了不存在的肥料整行跳过，不报错也不产出行结果
func TestUnresolvedFertilizerSkipped(t *testing.T) {
	lines := []DoseLine{
		{FertilizerID: 999, Amount: 500},
		{FertilizerID: 1, Amount: 500},
	}
	res := Compute(lines, sampleFertilizers(), directConfig())

	if len(res.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(res.Lines))
	}
	if res.Lines[0].FertilizerID != 1 {
		t.Errorf("Lines[0].FertilizerID = %d, want 1", res.Lines[0].FertilizerID)
	}
}

func TestECEstimate(t *testing.T) {
	// 5 g/L 硝酸钙，系数 1.20，校准 1.10 → 5×1.20×1.10 = 6.6
	res := Compute([]DoseLine{{FertilizerID: 1, Amount: 500}}, sampleFertilizers(), directConfig())
	if !almostEqual(res.ECEstimate, 6.6) {
		t.Errorf("ECEstimate = %v, want 6.6", res.ECEstimate)
	}
}

func TestECScaleDefaultWhenUnset(t *testing.T) {
	cfg := directConfig()
	cfg.ECScale = 0 // 未设置时走默认 1.10
	res := Compute([]DoseLine{{FertilizerID: 1, Amount: 500}}, sampleFertilizers(), cfg)
	if !almostEqual(res.ECEstimate, 6.6) {
		t.Errorf("ECEstimate = %v, want 6.6 with default scale", res.ECEstimate)
	}
}
