package model

// Category 品类（食品项目 / CPI 篮子项目）
type Category struct {
	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
}

// FoodPrice 食品价格观测值，(region_id, item_code, period_id) 唯一
type FoodPrice struct {
	RegionID int64   `json:"regionId"`
	ItemCode string  `json:"itemCode"`
	PeriodID int64   `json:"periodId"`
	Price    float64 `json:"price"`
}

// CPIValue CPI 观测值，附带基期信息
type CPIValue struct {
	RegionID   int64   `json:"regionId"`
	ItemCode   string  `json:"itemCode"`
	PeriodID   int64   `json:"periodId"`
	Value      float64 `json:"value"`
	BasePeriod string  `json:"basePeriod"`
	BaseValue  float64 `json:"baseValue"`
}

// StateFoodSales 州食品销售额（百万美元）
type StateFoodSales struct {
	RegionID          int64   `json:"regionId"`
	PeriodID          int64   `json:"periodId"`
	TotalSalesMillion float64 `json:"totalSalesMillion"`
}

// RegionalIncome 大区收入统计
type RegionalIncome struct {
	RegionID            int64   `json:"regionId"`
	PeriodID            int64   `json:"periodId"`
	HouseholdsThousands float64 `json:"householdsThousands"`
	MedianIncomeCurrent float64 `json:"medianIncomeCurrent"`
	MedianIncome2023    float64 `json:"medianIncome2023"`
	MeanIncomeCurrent   float64 `json:"meanIncomeCurrent"`
	MeanIncome2023      float64 `json:"meanIncome2023"`
}

// StateIncome 州收入统计（现价与 2023 年美元口径）
type StateIncome struct {
	RegionID             int64   `json:"regionId"`
	PeriodID             int64   `json:"periodId"`
	MedianIncomeCurrent  float64 `json:"medianIncomeCurrent"`
	MedianIncome2023     float64 `json:"medianIncome2023"`
	StandardErrorCurrent float64 `json:"standardErrorCurrent"`
	StandardError2023    float64 `json:"standardError2023"`
}
