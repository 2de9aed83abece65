package etl

import (
	"econstat/internal/geo"
	"econstat/internal/model"
	"econstat/internal/store"
)

type periodKey struct {
	year  int
	month int
}

// ReconcileContext 一次 ETL 运行内的区域/周期解析上下文
// 缓存由单个 Loader 独占，不跨运行共享
type ReconcileContext struct {
	store   *store.Store
	regions map[string]int64
	periods map[periodKey]int64
}

// NewReconcileContext 创建解析上下文
func NewReconcileContext(st *store.Store) *ReconcileContext {
	return &ReconcileContext{
		store:   st,
		regions: make(map[string]int64),
		periods: make(map[periodKey]int64),
	}
}

// ResolveArea 将原始区域标签解析为一个或多个 region_id
// 含州代码的标签按州展开（跨州都市区产生多个 id），否则按声明类型整体入库
func (c *ReconcileContext) ResolveArea(areaName string, declaredType model.RegionType) ([]int64, error) {
	states := geo.ExtractStates(areaName)
	if len(states) > 0 {
		ids := make([]int64, 0, len(states))
		for _, state := range states {
			id, err := c.resolveRegion(state, model.RegionTypeState)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	id, err := c.resolveRegion(areaName, declaredType)
	if err != nil {
		return nil, err
	}
	return []int64{id}, nil
}

// resolveRegion 缓存命中直接返回，否则 upsert 后写入缓存
func (c *ReconcileContext) resolveRegion(name string, regionType model.RegionType) (int64, error) {
	if id, ok := c.regions[name]; ok {
		return id, nil
	}
	id, err := c.store.UpsertRegion(name, regionType)
	if err != nil {
		return 0, err
	}
	c.regions[name] = id
	return id, nil
}

// ResolvePeriod 解析时间周期，month 为 0 表示年度
func (c *ReconcileContext) ResolvePeriod(year, month int) (int64, error) {
	key := periodKey{year: year, month: month}
	if id, ok := c.periods[key]; ok {
		return id, nil
	}
	id, err := c.store.UpsertPeriod(year, month)
	if err != nil {
		return 0, err
	}
	c.periods[key] = id
	return id, nil
}
