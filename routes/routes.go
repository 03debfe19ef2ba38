package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-shuifeibao/config"
	"go-shuifeibao/controllers"
	"go-shuifeibao/middleware"
)

// SetupRouter 配置所有路由
func SetupRouter(db *sql.DB, cfg config.Config) *gin.Engine {
	r := gin.Default()

	// 创建控制器实例
	authController := controllers.NewAuthController(db, cfg.JWT.ExpireHours)
	fertilizerController := controllers.NewFertilizerController(db)
	calculationController := controllers.NewCalculationController(db)
	recipeController := controllers.NewRecipeController(db)

	// 公共路由
	public := r.Group("/")
	{
		// 用户认证相关路由
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
	}

	// 监控指标
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 需要认证的路由
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		// 肥料产品库相关路由
		protected.POST("/fertilizer/save", fertilizerController.SaveFertilizer)
		protected.GET("/fertilizer/list", fertilizerController.GetFertilizers)
		protected.GET("/fertilizer/detail", fertilizerController.GetFertilizer)
		protected.POST("/fertilizer/update", fertilizerController.UpdateFertilizer)
		protected.POST("/fertilizer/delete", fertilizerController.DeleteFertilizer)

		// 水肥计算相关路由
		protected.POST("/calc/compute", calculationController.Compute)

		// 配方相关路由
		protected.POST("/recipe/save", recipeController.SaveRecipe)
		protected.GET("/recipe/records", recipeController.GetRecipes)
		protected.GET("/recipe/record", recipeController.GetRecipe)
		protected.POST("/recipe/delete", recipeController.DeleteRecipe)
		protected.GET("/recipe/workorder", recipeController.GetWorkOrder)
		protected.GET("/recipe/export", recipeController.ExportWorkOrder)
	}

	return r
}
