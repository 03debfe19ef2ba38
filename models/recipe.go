package models

// Recipe 配方快照模型。保存时由服务端重新计算后落库，
// ppm 等结果字段是已经算好的快照，读取后可直接打印。
type Recipe struct {
	ID            int64              `json:"id"`
	UserID        int                `json:"userId"`
	BatchNo       string             `json:"batchNo"`
	Name          string             `json:"name"`
	Notes         string             `json:"notes"`
	Topology      string             `json:"topology"`
	DosingMode    string             `json:"dosingMode"`
	WeightUnit    string             `json:"weightUnit"`
	VesselVolumeL float64            `json:"vesselVolumeL"`
	InjectorRatio float64            `json:"injectorRatio"`
	ECScale       float64            `json:"ecScale"`
	PPM           map[string]float64 `json:"ppm"`
	ECEstimate    float64            `json:"ecEstimate"`
	CostPerBatch  float64            `json:"costPerBatch"`
	CreatedAt     string             `json:"createdAt"`
	Lines         []RecipeLine       `json:"lines"`
}

// RecipeLine 配方行，记录单个肥料的用量和该行的计算结果
type RecipeLine struct {
	ID             int64   `json:"id"`
	RecipeID       int64   `json:"recipeId"`
	FertilizerID   int64   `json:"fertilizerId"`
	FertilizerName string  `json:"fertilizerName"`
	Amount         float64 `json:"amount"`
	TotalGrams     float64 `json:"totalGrams"`
	DeliveredGPerL float64 `json:"deliveredGPerL"`
	Cost           float64 `json:"cost"`
}
