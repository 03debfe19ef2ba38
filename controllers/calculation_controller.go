package controllers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-shuifeibao/engine"
	"go-shuifeibao/middleware"
	"go-shuifeibao/models"
)

// CalculationController 处理水肥计算相关的请求
type CalculationController struct {
	DB *sql.DB
}

// NewCalculationController 创建一个新的CalculationController实例
func NewCalculationController(db *sql.DB) *CalculationController {
	return &CalculationController{DB: db}
}

// ComputeRequest 计算请求。Fertilizers 可选，客户端可以带上
// 还没入库的临时产品做预览，ID 与库内冲突时以库内为准。
type ComputeRequest struct {
	DoseLines   []engine.DoseLine   `json:"doseLines"`
	Fertilizers []models.Fertilizer `json:"fertilizers"`
	Config      engine.MixConfig    `json:"config"`
}

// Compute 执行一次水肥计算，不落库
func (c *CalculationController) Compute(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var req ComputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fertilizers, err := resolveFertilizers(c.DB, userID, req.DoseLines)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询肥料失败"})
		return
	}
	// 合并请求里的临时产品，已入库的同ID记录优先
	for _, fert := range req.Fertilizers {
		if _, ok := fertilizers[fert.ID]; !ok {
			fertilizers[fert.ID] = fert
		}
	}

	result := engine.Compute(req.DoseLines, fertilizers, req.Config)
	middleware.ComputeTotal.Inc()

	ctx.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
		"data": gin.H{
			"result":     result,
			"displayPpm": engine.DisplayPPM(result.PPM),
		},
	})
}

// resolveFertilizers 按剂量行引用的ID从库里取出当前用户的肥料。
// 查不到的ID不报错，引擎会整行跳过。
func resolveFertilizers(db *sql.DB, userID int, lines []engine.DoseLine) (map[int64]models.Fertilizer, error) {
	fertilizers := make(map[int64]models.Fertilizer)

	seen := make(map[int64]bool)
	var ids []interface{}
	for _, line := range lines {
		if line.FertilizerID > 0 && !seen[line.FertilizerID] {
			seen[line.FertilizerID] = true
			ids = append(ids, line.FertilizerID)
		}
	}
	if len(ids) == 0 {
		return fertilizers, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := "SELECT " + fertilizerColumns + " FROM fertilizers WHERE user_id = ? AND id IN (" + placeholders + ")"
	params := append([]interface{}{userID}, ids...)

	rows, err := db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		fert, err := scanFertilizer(rows.Scan)
		if err != nil {
			return nil, err
		}
		fertilizers[fert.ID] = fert
	}
	return fertilizers, rows.Err()
}
