package models

// MacroNutrients 大量元素含量（%），指针为 nil 表示标签未标注，计算时按 0 处理
type MacroNutrients struct {
	N    *float64 `json:"n"`
	P2O5 *float64 `json:"p2o5"`
	K2O  *float64 `json:"k2o"`
	Ca   *float64 `json:"ca"`
	Mg   *float64 `json:"mg"`
	S    *float64 `json:"s"`
}

// MicroNutrients 微量元素含量（%）
type MicroNutrients struct {
	Fe *float64 `json:"fe"`
	Mn *float64 `json:"mn"`
	Zn *float64 `json:"zn"`
	Cu *float64 `json:"cu"`
	B  *float64 `json:"b"`
	Mo *float64 `json:"mo"`
}

// Fertilizer 肥料产品模型
type Fertilizer struct {
	ID          int64          `json:"id"`
	UserID      int            `json:"userId"`
	Name        string         `json:"name"`
	BagSizeKg   *float64       `json:"bagSizeKg"`
	PricePerBag *float64       `json:"pricePerBag"`
	Macros      MacroNutrients `json:"npk"`
	Micros      MicroNutrients `json:"micro"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}
