package controllers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"go-shuifeibao/engine"
	"go-shuifeibao/middleware"
	"go-shuifeibao/models"
	"go-shuifeibao/utils"
	"go-shuifeibao/workorder"
)

// RecipeController 处理配方相关的请求
type RecipeController struct {
	DB *sql.DB
}

// NewRecipeController 创建一个新的RecipeController实例
func NewRecipeController(db *sql.DB) *RecipeController {
	return &RecipeController{DB: db}
}

// SaveRecipeRequest 保存配方请求。服务端拿剂量行重新算一遍
// 再落库，存进去的快照就是权威结果，打印时不再计算。
type SaveRecipeRequest struct {
	Name      string            `json:"name"`
	BatchNo   string            `json:"batchNo"`
	Notes     string            `json:"notes"`
	DoseLines []engine.DoseLine `json:"doseLines"`
	Config    engine.MixConfig  `json:"config"`
}

// SaveRecipe 保存配方
func (c *RecipeController) SaveRecipe(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var req SaveRecipeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fertilizers, err := resolveFertilizers(c.DB, userID, req.DoseLines)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询肥料失败"})
		return
	}

	result := engine.Compute(req.DoseLines, fertilizers, req.Config)

	batchNo := req.BatchNo
	if batchNo == "" {
		batchNo = utils.GenerateBatchNo()
	}

	ppmJSON, err := json.Marshal(result.PPM)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "序列化计算结果失败"})
		return
	}

	// 开始事务
	tx, err := c.DB.Begin()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "事务开始失败"})
		return
	}

	insertRecipeSQL := `
		INSERT INTO recipes (
			user_id, batch_no, name, notes,
			topology, dosing_mode, weight_unit,
			vessel_volume_l, injector_ratio, ec_scale,
			ppm, ec_estimate, cost_per_batch
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
	`
	insertResult, err := tx.Exec(
		insertRecipeSQL,
		userID, batchNo, req.Name, req.Notes,
		req.Config.Topology, req.Config.DosingMode, req.Config.WeightUnit,
		req.Config.VesselVolumeL, req.Config.InjectorRatio, req.Config.ECScale,
		string(ppmJSON), result.ECEstimate, result.CostPerBatch,
	)
	if err != nil {
		tx.Rollback()
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "保存配方失败"})
		return
	}

	recipeID, err := insertResult.LastInsertId()
	if err != nil {
		tx.Rollback()
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取配方ID失败"})
		return
	}

	// 插入配方行：原始用量 + 该行算好的结果
	insertLineSQL := `
		INSERT INTO recipe_lines (
			recipe_id, fertilizer_id, fertilizer_name,
			amount, total_grams, delivered_g_per_l, cost
		) VALUES (?,?,?,?,?,?,?)
	`
	// result.Lines 与剂量行同序，只是去掉了引用失效的行
	lineIdx := 0
	for _, doseLine := range req.DoseLines {
		if _, ok := fertilizers[doseLine.FertilizerID]; !ok {
			continue
		}
		line := result.Lines[lineIdx]
		lineIdx++
		if _, err = tx.Exec(
			insertLineSQL,
			recipeID, line.FertilizerID, line.FertilizerName,
			float64(doseLine.Amount), line.TotalGrams, line.DeliveredGPerL, line.Cost,
		); err != nil {
			tx.Rollback()
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "保存配方行失败"})
			return
		}
	}

	if err = tx.Commit(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "提交事务失败"})
		return
	}

	middleware.RecipeSavedTotal.Inc()

	ctx.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
		"data": gin.H{
			"id":      recipeID,
			"batchNo": batchNo,
			"result":  result,
		},
	})
}

const recipeColumns = `
	id, user_id, batch_no, name, notes,
	topology, dosing_mode, weight_unit,
	vessel_volume_l, injector_ratio, ec_scale,
	ppm, ec_estimate, cost_per_batch, created_at
`

// scanRecipe 从查询结果读出一条配方记录（不含配方行）
func scanRecipe(scan func(dest ...interface{}) error) (models.Recipe, error) {
	var r models.Recipe
	var ppmJSON string
	var createdAt sql.NullTime
	err := scan(
		&r.ID, &r.UserID, &r.BatchNo, &r.Name, &r.Notes,
		&r.Topology, &r.DosingMode, &r.WeightUnit,
		&r.VesselVolumeL, &r.InjectorRatio, &r.ECScale,
		&ppmJSON, &r.ECEstimate, &r.CostPerBatch, &createdAt,
	)
	if err != nil {
		return r, err
	}
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time.Format("2006-01-02 15:04:05")
	}
	r.PPM = map[string]float64{}
	if ppmJSON != "" {
		// 老数据的快照字段解析失败不致命，按空结果返回
		_ = json.Unmarshal([]byte(ppmJSON), &r.PPM)
	}
	return r, nil
}

// loadRecipeLines 读取配方行
func (c *RecipeController) loadRecipeLines(recipeID int64) ([]models.RecipeLine, error) {
	rows, err := c.DB.Query(`
		SELECT id, recipe_id, fertilizer_id, fertilizer_name,
			amount, total_grams, delivered_g_per_l, cost
		FROM recipe_lines
		WHERE recipe_id = ?
		ORDER BY id
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.RecipeLine
	for rows.Next() {
		var line models.RecipeLine
		if err := rows.Scan(
			&line.ID, &line.RecipeID, &line.FertilizerID, &line.FertilizerName,
			&line.Amount, &line.TotalGrams, &line.DeliveredGPerL, &line.Cost,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// fetchRecipe 取单条配方及其配方行
func (c *RecipeController) fetchRecipe(userID int, id string) (models.Recipe, error) {
	row := c.DB.QueryRow(
		"SELECT "+recipeColumns+" FROM recipes WHERE id = ? AND user_id = ?",
		id, userID,
	)
	recipe, err := scanRecipe(row.Scan)
	if err != nil {
		return recipe, err
	}
	recipe.Lines, err = c.loadRecipeLines(recipe.ID)
	return recipe, err
}

// GetRecipes 获取配方列表
func (c *RecipeController) GetRecipes(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	// 获取查询参数
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "10"))
	startDate := ctx.Query("startDate")
	endDate := ctx.Query("endDate")
	name := ctx.Query("name")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	// 构建基础查询
	query := "SELECT " + recipeColumns + " FROM recipes WHERE user_id = ?"
	queryParams := []interface{}{userID}

	// 添加时间区间筛选
	if startDate != "" && endDate != "" {
		query += " AND created_at BETWEEN ? AND ?"
		queryParams = append(queryParams, startDate, endDate)
	}

	// 配方名称模糊筛选
	if name != "" {
		query += " AND name LIKE ?"
		queryParams = append(queryParams, "%"+name+"%")
	}

	// 添加排序和分页
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	queryParams = append(queryParams, pageSize, (page-1)*pageSize)

	rows, err := c.DB.Query(query, queryParams...)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询配方列表失败"})
		return
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows.Scan)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "解析配方记录失败"})
			return
		}
		recipes = append(recipes, recipe)
	}
	rows.Close()

	// 补配方行
	for i := range recipes {
		recipes[i].Lines, err = c.loadRecipeLines(recipes[i].ID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询配方行失败"})
			return
		}
	}

	// 获取总记录数
	var totalCount int
	countQuery := "SELECT COUNT(*) FROM recipes WHERE user_id = ?"
	countParams := []interface{}{userID}
	if startDate != "" && endDate != "" {
		countQuery += " AND created_at BETWEEN ? AND ?"
		countParams = append(countParams, startDate, endDate)
	}
	if name != "" {
		countQuery += " AND name LIKE ?"
		countParams = append(countParams, "%"+name+"%")
	}
	if err = c.DB.QueryRow(countQuery, countParams...).Scan(&totalCount); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "获取总记录数失败"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":        200,
		"msg":         "ok",
		"data":        recipes,
		"totalCount":  totalCount,
		"currentPage": page,
		"pageSize":    pageSize,
	})
}

// GetRecipe 获取单个配方
func (c *RecipeController) GetRecipe(ctx *gin.Context) {
	userID := ctx.GetInt("userID")
	id := ctx.Query("id")

	recipe, err := c.fetchRecipe(userID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "配方不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询配方失败"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
		"data": recipe,
	})
}

// DeleteRecipe 删除配方，配方行随外键级联删除
func (c *RecipeController) DeleteRecipe(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var req struct {
		ID int64 `json:"id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := c.DB.Exec("DELETE FROM recipes WHERE id = ? AND user_id = ?", req.ID, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "删除配方失败"})
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "配方不存在"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
	})
}

// GetWorkOrder 生成可打印的配肥工单 HTML
func (c *RecipeController) GetWorkOrder(ctx *gin.Context) {
	userID := ctx.GetInt("userID")
	id := ctx.Query("id")

	recipe, err := c.fetchRecipe(userID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "配方不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询配方失败"})
		}
		return
	}

	html, err := workorder.Render(recipe)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成工单失败"})
		return
	}

	middleware.WorkOrderTotal.Inc()
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// ExportWorkOrder 导出配方为 Excel 工单
func (c *RecipeController) ExportWorkOrder(ctx *gin.Context) {
	userID := ctx.GetInt("userID")
	id := ctx.Query("id")

	recipe, err := c.fetchRecipe(userID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "配方不存在"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "查询配方失败"})
		}
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	// 工单头
	headerRows := [][]interface{}{
		{"批次号", recipe.BatchNo},
		{"配方名称", recipe.Name},
		{"备注", recipe.Notes},
		{"施肥方式", recipe.Topology},
		{"配比方式", recipe.DosingMode},
		{"桶体积(L)", recipe.VesselVolumeL},
		{"稀释比", recipe.InjectorRatio},
		{"EC估算(mS/cm)", recipe.ECEstimate},
		{"总成本", recipe.CostPerBatch},
		{"创建时间", recipe.CreatedAt},
	}
	row := 1
	for _, hr := range headerRows {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, cell, &hr); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成Excel失败"})
			return
		}
		row++
	}

	// 配方行
	row++
	lineHeader := []interface{}{"肥料", "用量", "消耗(g)", "出水浓度(g/L)", "成本"}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &lineHeader); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成Excel失败"})
		return
	}
	row++
	for _, line := range recipe.Lines {
		excelRow := []interface{}{
			line.FertilizerName,
			line.Amount,
			line.TotalGrams,
			line.DeliveredGPerL,
			line.Cost,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &excelRow); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成Excel失败"})
			return
		}
		row++
	}

	// 养分浓度表，展示口径舍入
	row++
	display := engine.DisplayPPM(recipe.PPM)
	ppmHeader := []interface{}{"养分", "浓度(ppm)"}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &ppmHeader); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成Excel失败"})
		return
	}
	row++
	for _, sym := range append(append([]string{}, engine.MacroSymbols...), engine.MicroSymbols...) {
		ppmRow := []interface{}{sym, display[sym]}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &ppmRow); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "生成Excel失败"})
			return
		}
		row++
	}

	middleware.WorkOrderTotal.Inc()

	filename := fmt.Sprintf("workorder-%s.xlsx", recipe.BatchNo)
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(ctx.Writer); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "写出Excel失败"})
		return
	}
}
