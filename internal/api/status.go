package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已有数据
	LatestYear     int    `json:"latestYear"`     // 数据覆盖的最新年份
	RegionCount    int    `json:"regionCount"`    // 区域总数
	FoodPriceCount int    `json:"foodPriceCount"` // 食品价格观测数
	CPIValueCount  int    `json:"cpiValueCount"`  // CPI 观测数
	LastImportTime string `json:"lastImportTime"` // 最后导入完成时间
	LastImportJob  string `json:"lastImportJob"`  // 最后导入任务 ID
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	regionCount, err := h.store.CountRegions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询区域数量失败"})
		return
	}

	foodPrices, err := h.store.CountTable("food_prices")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询价格数量失败"})
		return
	}
	cpiValues, err := h.store.CountTable("cpi_values")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询 CPI 数量失败"})
		return
	}

	latestYear, err := h.store.MaxYear()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询最新年份失败"})
		return
	}

	resp := StatusResponse{
		Initialized:    foodPrices > 0 || cpiValues > 0,
		LatestYear:     latestYear,
		RegionCount:    regionCount,
		FoodPriceCount: foodPrices,
		CPIValueCount:  cpiValues,
	}

	if lastLog, err := h.store.LastImportLog(); err == nil && lastLog != nil {
		resp.LastImportJob = lastLog.JobID
		if lastLog.CompletedAt != nil {
			resp.LastImportTime = lastLog.CompletedAt.Format("2006-01-02 15:04:05")
		}
	}

	c.JSON(http.StatusOK, resp)
}
