package controllers

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-shuifeibao/models"
	"go-shuifeibao/utils"
)

// FertilizerController 处理肥料产品库相关的请求
type FertilizerController struct {
	DB *sql.DB
}

// NewFertilizerController 创建一个新的FertilizerController实例
func NewFertilizerController(db *sql.DB) *FertilizerController {
	return &FertilizerController{DB: db}
}

const fertilizerColumns = `
	id, user_id, name, bag_size_kg, price_per_bag,
	n, p2o5, k2o, ca, mg, s,
	fe, mn, zn, cu, b, mo,
	created_at, updated_at
`

// scanFertilizer 从查询结果读出一条肥料记录。
// 养分字段是可空列，直接扫进 *float64，NULL 落成 nil。
func scanFertilizer(scan func(dest ...interface{}) error) (models.Fertilizer, error) {
	var f models.Fertilizer
	var createdAt, updatedAt time.Time
	err := scan(
		&f.ID, &f.UserID, &f.Name, &f.BagSizeKg, &f.PricePerBag,
		&f.Macros.N, &f.Macros.P2O5, &f.Macros.K2O, &f.Macros.Ca, &f.Macros.Mg, &f.Macros.S,
		&f.Micros.Fe, &f.Micros.Mn, &f.Micros.Zn, &f.Micros.Cu, &f.Micros.B, &f.Micros.Mo,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return f, err
	}
	f.CreatedAt = createdAt.Format("2006-01-02 15:04:05")
	f.UpdatedAt = updatedAt.Format("2006-01-02 15:04:05")
	return f, nil
}

// SaveFertilizer 新建肥料产品
func (c *FertilizerController) SaveFertilizer(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var fert models.Fertilizer
	if err := ctx.ShouldBindJSON(&fert); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	if fert.Name == "" {
		utils.BadRequest(ctx, "产品名称不能为空")
		return
	}

	result, err := c.DB.Exec(`
		INSERT INTO fertilizers (
			user_id, name, bag_size_kg, price_per_bag,
			n, p2o5, k2o, ca, mg, s,
			fe, mn, zn, cu, b, mo
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		userID, fert.Name, fert.BagSizeKg, fert.PricePerBag,
		fert.Macros.N, fert.Macros.P2O5, fert.Macros.K2O, fert.Macros.Ca, fert.Macros.Mg, fert.Macros.S,
		fert.Micros.Fe, fert.Micros.Mn, fert.Micros.Zn, fert.Micros.Cu, fert.Micros.B, fert.Micros.Mo,
	)
	if err != nil {
		utils.InternalServerError(ctx, "保存肥料失败")
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		utils.InternalServerError(ctx, "获取肥料ID失败")
		return
	}

	fert.ID = id
	fert.UserID = userID
	utils.Created(ctx, fert)
}

// GetFertilizers 获取肥料产品列表
func (c *FertilizerController) GetFertilizers(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	// 获取查询参数
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("pageSize", "10"))
	name := ctx.Query("name")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	// 构建基础查询
	query := "SELECT " + fertilizerColumns + " FROM fertilizers WHERE user_id = ?"
	queryParams := []interface{}{userID}

	// 名称模糊筛选
	if name != "" {
		query += " AND name LIKE ?"
		queryParams = append(queryParams, "%"+name+"%")
	}

	// 添加排序和分页
	query += " ORDER BY updated_at DESC LIMIT ? OFFSET ?"
	queryParams = append(queryParams, pageSize, (page-1)*pageSize)

	rows, err := c.DB.Query(query, queryParams...)
	if err != nil {
		utils.InternalServerError(ctx, "查询肥料列表失败")
		return
	}
	defer rows.Close()

	var fertilizers []models.Fertilizer
	for rows.Next() {
		fert, err := scanFertilizer(rows.Scan)
		if err != nil {
			utils.InternalServerError(ctx, "解析肥料记录失败")
			return
		}
		fertilizers = append(fertilizers, fert)
	}

	// 获取总记录数
	var totalCount int
	countQuery := "SELECT COUNT(*) FROM fertilizers WHERE user_id = ?"
	countParams := []interface{}{userID}
	if name != "" {
		countQuery += " AND name LIKE ?"
		countParams = append(countParams, "%"+name+"%")
	}
	if err = c.DB.QueryRow(countQuery, countParams...).Scan(&totalCount); err != nil {
		utils.InternalServerError(ctx, "获取总记录数失败")
		return
	}

	utils.SuccessWithPagination(ctx, fertilizers, totalCount, page, pageSize)
}

// GetFertilizer 获取单个肥料产品
func (c *FertilizerController) GetFertilizer(ctx *gin.Context) {
	userID := ctx.GetInt("userID")
	id := ctx.Query("id")

	row := c.DB.QueryRow(
		"SELECT "+fertilizerColumns+" FROM fertilizers WHERE id = ? AND user_id = ?",
		id, userID,
	)
	fert, err := scanFertilizer(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.NotFound(ctx, "肥料不存在")
		} else {
			utils.InternalServerError(ctx, "查询肥料失败")
		}
		return
	}

	utils.Success(ctx, fert)
}

// UpdateFertilizer 更新肥料产品
func (c *FertilizerController) UpdateFertilizer(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var fert models.Fertilizer
	if err := ctx.ShouldBindJSON(&fert); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}
	if fert.ID <= 0 {
		utils.BadRequest(ctx, "无效的肥料ID")
		return
	}
	if fert.Name == "" {
		utils.BadRequest(ctx, "产品名称不能为空")
		return
	}

	result, err := c.DB.Exec(`
		UPDATE fertilizers SET
			name = ?, bag_size_kg = ?, price_per_bag = ?,
			n = ?, p2o5 = ?, k2o = ?, ca = ?, mg = ?, s = ?,
			fe = ?, mn = ?, zn = ?, cu = ?, b = ?, mo = ?
		WHERE id = ? AND user_id = ?
	`,
		fert.Name, fert.BagSizeKg, fert.PricePerBag,
		fert.Macros.N, fert.Macros.P2O5, fert.Macros.K2O, fert.Macros.Ca, fert.Macros.Mg, fert.Macros.S,
		fert.Micros.Fe, fert.Micros.Mn, fert.Micros.Zn, fert.Micros.Cu, fert.Micros.B, fert.Micros.Mo,
		fert.ID, userID,
	)
	if err != nil {
		utils.InternalServerError(ctx, "更新肥料失败")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.NotFound(ctx, "肥料不存在")
		return
	}

	fert.UserID = userID
	utils.Success(ctx, fert)
}

// DeleteFertilizer 删除肥料产品。引用了该肥料的历史配方不受影响，
// 快照里存的是名称和算好的结果；之后的计算会整行跳过失效引用。
func (c *FertilizerController) DeleteFertilizer(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var req struct {
		ID int64 `json:"id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.DB.Exec("DELETE FROM fertilizers WHERE id = ? AND user_id = ?", req.ID, userID)
	if err != nil {
		utils.InternalServerError(ctx, "删除肥料失败")
		return
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		utils.NotFound(ctx, "肥料不存在")
		return
	}

	utils.Success(ctx, gin.H{"id": req.ID})
}
