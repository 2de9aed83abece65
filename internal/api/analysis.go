package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// yearParam 解析年份参数，缺省时回退到数据覆盖的最新年份
func (h *Handler) yearParam(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		year, err := h.store.MaxYear()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "查询最新年份失败"})
			return 0, false
		}
		return year, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的年份"})
		return 0, false
	}
	return year, true
}

// IncomeInequality 大区收入不平等
// GET /api/analysis/income-inequality
func (h *Handler) IncomeInequality(c *gin.Context) {
	rows, err := h.store.QueryIncomeInequality()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询收入差距失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// FoodPriceTrends 食品价格走势
// GET /api/analysis/food-price-trends?item=egg
func (h *Handler) FoodPriceTrends(c *gin.Context) {
	item := c.Query("item")
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 item 参数"})
		return
	}
	rows, err := h.store.QueryFoodPriceTrends(item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询价格走势失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// SalesRankings 州食品销售额排名
// GET /api/analysis/sales-rankings?year=2023
func (h *Handler) SalesRankings(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	rows, err := h.store.QueryStateFoodSalesRankings(year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询销售排名失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "rows": rows, "total": len(rows)})
}

// CPIByCategory 区域内各品类 CPI
// GET /api/analysis/cpi-by-category?region=California&year=2023
func (h *Handler) CPIByCategory(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 region 参数"})
		return
	}
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	rows, err := h.store.QueryCPIByCategory(region, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询品类 CPI 失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": region, "year": year, "rows": rows, "total": len(rows)})
}

// IncomeGrowth 大区收入增长率
// GET /api/analysis/income-growth
func (h *Handler) IncomeGrowth(c *gin.Context) {
	rows, err := h.store.QueryIncomeGrowth()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询收入增长失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// StateIncomeComparison 两州收入对比
// GET /api/analysis/state-income-comparison?state1=California&state2=Texas
func (h *Handler) StateIncomeComparison(c *gin.Context) {
	state1 := c.Query("state1")
	state2 := c.Query("state2")
	if state1 == "" || state2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 state1/state2 参数"})
		return
	}
	rows, err := h.store.QueryStateIncomeComparison(state1, state2)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询州收入对比失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// PriceVolatility 品类价格波动
// GET /api/analysis/price-volatility?year=2023
func (h *Handler) PriceVolatility(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	rows, err := h.analyzer.FoodPriceVolatility(year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "计算价格波动失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "rows": rows, "total": len(rows)})
}

// RegionalCPITrends 大区 CPI 走势
// GET /api/analysis/regional-cpi-trends?item=SA0
func (h *Handler) RegionalCPITrends(c *gin.Context) {
	item := c.Query("item")
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 item 参数"})
		return
	}
	rows, err := h.store.QueryRegionalCPITrends(item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询 CPI 走势失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// IncomeSalesCorrelation 收入与销售额相关性
// GET /api/analysis/income-sales-correlation
func (h *Handler) IncomeSalesCorrelation(c *gin.Context) {
	result, err := h.analyzer.IncomeSalesCorrelation()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "计算相关性失败"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// MonthlyPrices 指定年月各区域价格
// GET /api/analysis/monthly-prices?year=2023&month=6
func (h *Handler) MonthlyPrices(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的月份"})
		return
	}
	rows, err := h.store.QueryMonthlyPrices(year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询月度价格失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "rows": rows, "total": len(rows)})
}

// IncomeDistribution 大区收入分布
// GET /api/analysis/income-distribution
func (h *Handler) IncomeDistribution(c *gin.Context) {
	rows, err := h.store.QueryRegionalIncomeDistribution()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询收入分布失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// YoYCPIChange 年度 CPI 同比变化
// GET /api/analysis/yoy-cpi?region=U.S. city average&item=SA0
func (h *Handler) YoYCPIChange(c *gin.Context) {
	region := c.Query("region")
	item := c.Query("item")
	if region == "" || item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 region/item 参数"})
		return
	}
	rows, err := h.store.QueryYoYCPIChange(region, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询 CPI 同比失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// PriceRanges 品类价格区间
// GET /api/analysis/price-ranges
func (h *Handler) PriceRanges(c *gin.Context) {
	rows, err := h.store.QueryPriceRanges()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询价格区间失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// IncomePercentile 州收入分位
// GET /api/analysis/income-percentile?state=California
func (h *Handler) IncomePercentile(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 state 参数"})
		return
	}
	result, err := h.analyzer.StateIncomePercentile(state)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SeasonalPatterns 季节性价格模式
// GET /api/analysis/seasonal-patterns
func (h *Handler) SeasonalPatterns(c *gin.Context) {
	rows, err := h.store.QuerySeasonalPatterns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询季节模式失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}
