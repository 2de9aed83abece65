package api

import (
	"github.com/gin-gonic/gin"

	"econstat/internal/analysis"
	"econstat/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.Store
	analyzer  *analysis.Analyzer
	csvDir    string
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, csvDir string) *Handler {
	return &Handler{
		store:     st,
		analyzer:  analysis.New(st),
		csvDir:    csvDir,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 维表目录
	router.GET("/regions", h.ListRegions)
	router.GET("/food-items", h.ListFoodItems)
	router.GET("/cpi-categories", h.ListCPICategories)
	router.GET("/years", h.ListYears)

	// 数据导入
	router.POST("/import", h.Import)

	// 分析查询
	analysisGroup := router.Group("/analysis")
	{
		analysisGroup.GET("/income-inequality", h.IncomeInequality)
		analysisGroup.GET("/food-price-trends", h.FoodPriceTrends)
		analysisGroup.GET("/sales-rankings", h.SalesRankings)
		analysisGroup.GET("/cpi-by-category", h.CPIByCategory)
		analysisGroup.GET("/income-growth", h.IncomeGrowth)
		analysisGroup.GET("/state-income-comparison", h.StateIncomeComparison)
		analysisGroup.GET("/price-volatility", h.PriceVolatility)
		analysisGroup.GET("/regional-cpi-trends", h.RegionalCPITrends)
		analysisGroup.GET("/income-sales-correlation", h.IncomeSalesCorrelation)
		analysisGroup.GET("/monthly-prices", h.MonthlyPrices)
		analysisGroup.GET("/income-distribution", h.IncomeDistribution)
		analysisGroup.GET("/yoy-cpi", h.YoYCPIChange)
		analysisGroup.GET("/price-ranges", h.PriceRanges)
		analysisGroup.GET("/income-percentile", h.IncomePercentile)
		analysisGroup.GET("/seasonal-patterns", h.SeasonalPatterns)
	}

	// 数据导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
