package engine

import (
	"math"
	"testing"

	"go-shuifeibao/models"
)

func fptr(v float64) *float64 { return &v }

func almostEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	return diff <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestAccumulatePPMBasic(t *testing.T) {
	// 1 g/L、15% N → 150 ppm
	fert := models.Fertilizer{
		Name:   "Potassium Nitrate",
		Macros: models.MacroNutrients{N: fptr(15), K2O: fptr(46)},
	}
	ppm := NewPPMMap()
	AccumulatePPM(ppm, 1, fert, false)
	if !almostEqual(ppm["N"], 150) {
		t.Errorf("ppm[N] = %v, want 150", ppm["N"])
	}
	if !almostEqual(ppm["K2O"], 460) {
		t.Errorf("ppm[K2O] = %v, want 460", ppm["K2O"])
	}
	// 未标注的养分必须是 0，而且键要在
	for _, sym := range []string{"P2O5", "Ca", "Mg", "S", "Fe", "Mn", "Zn", "Cu", "B", "Mo"} {
		if v, ok := ppm[sym]; !ok || v != 0 {
			t.Errorf("ppm[%s] = %v (present=%v), want 0", sym, v, ok)
		}
	}
}

// 名字不带 MgO 的镁按元素镁算，带 MgO 的先按 0.603 折纯
func TestMgOxideCorrection(t *testing.T) {
	elemental := models.Fertilizer{
		Name:   "Krista MgS",
		Macros: models.MacroNutrients{Mg: fptr(10)},
	}
	ppm := NewPPMMap()
	AccumulatePPM(ppm, 1, elemental, false)
	if !almostEqual(ppm["Mg"], 100) {
		t.Errorf("elemental Mg: ppm = %v, want 100", ppm["Mg"])
	}

	oxide := models.Fertilizer{
		Name:   "Magnesium MgO Blend",
		Macros: models.MacroNutrients{Mg: fptr(10)},
	}
	ppm = NewPPMMap()
	AccumulatePPM(ppm, 1, oxide, false)
	if !almostEqual(ppm["Mg"], 60.3) {
		t.Errorf("oxide Mg: ppm = %v, want 60.3", ppm["Mg"])
	}
}

func TestMgOxideNameMatchCaseInsensitive(t *testing.T) {
	for _, name := range []string{"mgo granular", "MGO Premium", "颗粒氧化镁"} {
		if !isMgOxideName(name) {
			t.Errorf("isMgOxideName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"Krista MgS", "Magnesium Sulfate"} {
		if isMgOxideName(name) {
			t.Errorf("isMgOxideName(%q) = true, want false", name)
		}
	}
}

func TestNilPercentsContributeZero(t *testing.T) {
	fert := models.Fertilizer{Name: "Empty Label"}
	ppm := NewPPMMap()
	AccumulatePPM(ppm, 2, fert, false)
	for sym, v := range ppm {
		if v != 0 {
			t.Errorf("ppm[%s] = %v, want 0", sym, v)
		}
	}
}

// 小数占比容错只对大量元素、只在打开开关后生效
func TestAutoScalePercent(t *testing.T) {
	fert := models.Fertilizer{
		Name:   "Decimal Label",
		Macros: models.MacroNutrients{N: fptr(0.14)},
		Micros: models.MicroNutrients{B: fptr(0.02)},
	}

	ppm := NewPPMMap()
	AccumulatePPM(ppm, 1, fert, false)
	if !almostEqual(ppm["N"], 1.4) {
		t.Errorf("autoScale off: ppm[N] = %v, want 1.4", ppm["N"])
	}

	ppm = NewPPMMap()
	AccumulatePPM(ppm, 1, fert, true)
	if !almostEqual(ppm["N"], 140) {
		t.Errorf("autoScale on: ppm[N] = %v, want 140 (0.14 read as 14%%)", ppm["N"])
	}
	// 微量元素 0.02% 是正常标签值，不许被放大
	if !almostEqual(ppm["B"], 0.2) {
		t.Errorf("autoScale on: ppm[B] = %v, want 0.2", ppm["B"])
	}
}

func TestDisplayPPM(t *testing.T) {
	ppm := NewPPMMap()
	ppm["N"] = 150.6
	ppm["Fe"] = 1.2345
	out := DisplayPPM(ppm)
	if out["N"] != 151 {
		t.Errorf("display N = %v, want 151", out["N"])
	}
	if out["Fe"] != 1.23 {
		t.Errorf("display Fe = %v, want 1.23", out["Fe"])
	}
	// 原表不能被动过
	if ppm["N"] != 150.6 {
		t.Errorf("source ppm mutated: %v", ppm["N"])
	}
}
