package engine

// ConsumedGrams 本行实际消耗的产品克数。成本看的是真实用量，
// 与浓度口径无关：每升模式要乘回桶体积；母液模式按加入母液桶
// 的量计，注肥器稀释比不影响买了多少肥。
func ConsumedGrams(amount float64, cfg MixConfig) float64 {
	g := AmountGrams(amount, cfg.WeightUnit)
	if cfg.DosingMode == DosingModePerLiter {
		return g * ToNonNegativeNumber(cfg.VesselVolumeL)
	}
	return g
}

// LineCost 单行成本 = 消耗克数 × (袋价 ÷ 袋重克数)。
// 袋重或袋价缺失、为零、为负的产品不计成本，照常算浓度。
func LineCost(totalGrams float64, bagSizeKg, pricePerBag *float64) float64 {
	if bagSizeKg == nil || pricePerBag == nil {
		return 0
	}
	bag, price := *bagSizeKg, *pricePerBag
	if bag <= 0 || price <= 0 {
		return 0
	}
	return ToNonNegativeNumber(totalGrams) * (price / (bag * 1000))
}
