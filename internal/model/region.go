package model

// RegionType 区域类型
type RegionType string

const (
	RegionTypeState    RegionType = "state"    // 州
	RegionTypeRegion   RegionType = "region"   // 大区
	RegionTypeDivision RegionType = "division" // 分区
)

// Region 区域（州/大区/分区），region_name 规范化后唯一
type Region struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Type RegionType `json:"type"`
}

// PeriodType 时间周期类型
type PeriodType string

const (
	PeriodTypeMonthly PeriodType = "monthly" // 月度
	PeriodTypeYearly  PeriodType = "yearly"  // 年度
)

// TimePeriod 时间周期，(year, month) 唯一
// Month 为 0 表示年度周期，与同年任意月度周期互不相同
type TimePeriod struct {
	ID    int64      `json:"id"`
	Year  int        `json:"year"`
	Month int        `json:"month,omitempty"`
	Type  PeriodType `json:"type"`
}

// PeriodTypeOf 根据月份推断周期类型
func PeriodTypeOf(month int) PeriodType {
	if month > 0 {
		return PeriodTypeMonthly
	}
	return PeriodTypeYearly
}
