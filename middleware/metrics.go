package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 业务计数器，经 /metrics 暴露
var (
	// ComputeTotal 完成的水肥计算次数
	ComputeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shuifeibao_compute_total",
		Help: "Number of fertigation computations performed.",
	})

	// RecipeSavedTotal 保存的配方数
	RecipeSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shuifeibao_recipe_saved_total",
		Help: "Number of recipes saved.",
	})

	// WorkOrderTotal 生成的工单数（HTML 与 Excel 合计）
	WorkOrderTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shuifeibao_workorder_total",
		Help: "Number of work orders rendered.",
	})
)
