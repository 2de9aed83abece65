package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"econstat/internal/model"
)

// ListRegions 区域列表，可按类型过滤
// GET /api/regions?type=state
func (h *Handler) ListRegions(c *gin.Context) {
	regionType := model.RegionType(c.Query("type"))
	switch regionType {
	case "", model.RegionTypeState, model.RegionTypeRegion, model.RegionTypeDivision:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的区域类型"})
		return
	}

	regions, err := h.store.ListRegions(regionType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询区域失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions, "total": len(regions)})
}

// ListFoodItems 食品品类列表
// GET /api/food-items
func (h *Handler) ListFoodItems(c *gin.Context) {
	items, err := h.store.ListFoodCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询食品品类失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// ListCPICategories CPI 篮子品类列表
// GET /api/cpi-categories
func (h *Handler) ListCPICategories(c *gin.Context) {
	items, err := h.store.ListCPICategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询 CPI 品类失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// ListYears 数据覆盖的年份列表
// GET /api/years
func (h *Handler) ListYears(c *gin.Context) {
	years, err := h.store.ListYears()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询年份失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}
