package store

import (
	"database/sql"
	"fmt"
)

// 本文件为分析查询的 SQL 部分，均为参数化查询
// 需要统计计算（标准差/相关系数/分位）的分析在 internal/analysis 中完成

// IncomeInequalityRow 大区收入不平等（均值-中位数差距）
type IncomeInequalityRow struct {
	RegionName       string  `json:"regionName"`
	Year             int     `json:"year"`
	MedianIncome2023 float64 `json:"medianIncome2023"`
	MeanIncome2023   float64 `json:"meanIncome2023"`
	IncomeGap        float64 `json:"incomeGap"`
}

// QueryIncomeInequality 按大区查询均值与中位数收入差距
func (s *Store) QueryIncomeInequality() ([]IncomeInequalityRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, tp.year,
		       ri.median_income_2023, ri.mean_income_2023,
		       (ri.mean_income_2023 - ri.median_income_2023) AS income_gap
		FROM regional_income ri
		JOIN regions r ON ri.region_id = r.region_id
		JOIN time_periods tp ON ri.period_id = tp.period_id
		WHERE r.region_type = 'region'
		ORDER BY tp.year DESC, income_gap DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query income inequality: %w", err)
	}
	defer rows.Close()

	var result []IncomeInequalityRow
	for rows.Next() {
		var row IncomeInequalityRow
		if err := rows.Scan(&row.RegionName, &row.Year, &row.MedianIncome2023,
			&row.MeanIncome2023, &row.IncomeGap); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// FoodPriceTrendRow 食品价格走势（月度）
type FoodPriceTrendRow struct {
	RegionName string  `json:"regionName"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Price      float64 `json:"price"`
	ItemName   string  `json:"itemName"`
}

// QueryFoodPriceTrends 按品类名称模糊匹配查询月度价格走势
func (s *Store) QueryFoodPriceTrends(itemName string) ([]FoodPriceTrendRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, tp.year, tp.month, fp.price, fc.item_name
		FROM food_prices fp
		JOIN regions r ON fp.region_id = r.region_id
		JOIN time_periods tp ON fp.period_id = tp.period_id
		JOIN food_categories fc ON fp.item_code = fc.item_code
		WHERE fc.item_name LIKE ? AND tp.period_type = 'monthly'
		ORDER BY tp.year, tp.month
	`, "%"+itemName+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query food price trends: %w", err)
	}
	defer rows.Close()

	var result []FoodPriceTrendRow
	for rows.Next() {
		var row FoodPriceTrendRow
		if err := rows.Scan(&row.RegionName, &row.Year, &row.Month, &row.Price, &row.ItemName); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SalesRankingRow 州食品销售额排名
type SalesRankingRow struct {
	State             string  `json:"state"`
	Year              int     `json:"year"`
	TotalSalesMillion float64 `json:"totalSalesMillion"`
}

// QueryStateFoodSalesRankings 按年份查询州食品销售额排名
func (s *Store) QueryStateFoodSalesRankings(year int) ([]SalesRankingRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, tp.year, sfs.total_sales_million
		FROM state_food_sales sfs
		JOIN regions r ON sfs.region_id = r.region_id
		JOIN time_periods tp ON sfs.period_id = tp.period_id
		WHERE tp.year = ? AND r.region_type = 'state'
		ORDER BY sfs.total_sales_million DESC
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales rankings: %w", err)
	}
	defer rows.Close()

	var result []SalesRankingRow
	for rows.Next() {
		var row SalesRankingRow
		if err := rows.Scan(&row.State, &row.Year, &row.TotalSalesMillion); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// CPIByCategoryRow 区域内各品类 CPI
type CPIByCategoryRow struct {
	Category   string  `json:"category"`
	CPIValue   float64 `json:"cpiValue"`
	BasePeriod string  `json:"basePeriod"`
	BaseValue  float64 `json:"baseValue"`
}

// QueryCPIByCategory 查询指定区域与年份的各品类 CPI（州/大区/分区均可）
func (s *Store) QueryCPIByCategory(regionName string, year int) ([]CPIByCategoryRow, error) {
	rows, err := s.db.Query(`
		SELECT cc.item_name, cv.value, cv.base_period, cv.base_value
		FROM cpi_values cv
		JOIN regions r ON cv.region_id = r.region_id
		JOIN time_periods tp ON cv.period_id = tp.period_id
		JOIN cpi_categories cc ON cv.item_code = cc.item_code
		WHERE r.region_name = ?
		  AND r.region_type IN ('state', 'region', 'division')
		  AND tp.year = ?
		ORDER BY cv.value DESC
	`, regionName, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query cpi by category: %w", err)
	}
	defer rows.Close()

	var result []CPIByCategoryRow
	for rows.Next() {
		var row CPIByCategoryRow
		if err := rows.Scan(&row.Category, &row.CPIValue, &row.BasePeriod, &row.BaseValue); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// IncomeGrowthRow 大区收入增长率（首年到末年）
type IncomeGrowthRow struct {
	RegionName  string  `json:"regionName"`
	StartYear   int     `json:"startYear"`
	EndYear     int     `json:"endYear"`
	StartIncome float64 `json:"startIncome"`
	EndIncome   float64 `json:"endIncome"`
	GrowthRate  float64 `json:"growthRate"`
}

// QueryIncomeGrowth 查询各大区从最早年份到最晚年份的收入增长率
func (s *Store) QueryIncomeGrowth() ([]IncomeGrowthRow, error) {
	rows, err := s.db.Query(`
		WITH income_by_year AS (
			SELECT r.region_name, tp.year, ri.median_income_2023
			FROM regional_income ri
			JOIN regions r ON ri.region_id = r.region_id
			JOIN time_periods tp ON ri.period_id = tp.period_id
			WHERE r.region_type = 'region'
		)
		SELECT i1.region_name,
		       i1.year AS start_year, i2.year AS end_year,
		       i1.median_income_2023 AS start_income,
		       i2.median_income_2023 AS end_income,
		       (i2.median_income_2023 - i1.median_income_2023) / i1.median_income_2023 * 100 AS growth_rate
		FROM income_by_year i1
		JOIN income_by_year i2 ON i1.region_name = i2.region_name
		WHERE i1.year = (SELECT MIN(year) FROM income_by_year)
		  AND i2.year = (SELECT MAX(year) FROM income_by_year)
		ORDER BY growth_rate DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query income growth: %w", err)
	}
	defer rows.Close()

	var result []IncomeGrowthRow
	for rows.Next() {
		var row IncomeGrowthRow
		if err := rows.Scan(&row.RegionName, &row.StartYear, &row.EndYear,
			&row.StartIncome, &row.EndIncome, &row.GrowthRate); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// StateIncomeRow 州收入（2023 年美元口径）
type StateIncomeRow struct {
	State             string  `json:"state"`
	Year              int     `json:"year"`
	MedianIncome2023  float64 `json:"medianIncome2023"`
	StandardError2023 float64 `json:"standardError2023"`
}

// QueryStateIncomeComparison 查询两个州历年收入对比
func (s *Store) QueryStateIncomeComparison(state1, state2 string) ([]StateIncomeRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, tp.year, si.median_income_2023, si.standard_error_2023
		FROM state_income si
		JOIN regions r ON si.region_id = r.region_id
		JOIN time_periods tp ON si.period_id = tp.period_id
		WHERE r.region_name IN (?, ?)
		ORDER BY tp.year, r.region_name
	`, state1, state2)
	if err != nil {
		return nil, fmt.Errorf("failed to query state income comparison: %w", err)
	}
	defer rows.Close()

	var result []StateIncomeRow
	for rows.Next() {
		var row StateIncomeRow
		if err := rows.Scan(&row.State, &row.Year, &row.MedianIncome2023, &row.StandardError2023); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// MonthlyItemPriceRow 按品类+月份展开的单条价格观测
type MonthlyItemPriceRow struct {
	ItemName string  `json:"itemName"`
	Month    int     `json:"month"`
	Price    float64 `json:"price"`
}

// QueryMonthlyPricesForYear 查询指定年份所有月度价格观测（供波动率计算）
func (s *Store) QueryMonthlyPricesForYear(year int) ([]MonthlyItemPriceRow, error) {
	rows, err := s.db.Query(`
		SELECT fc.item_name, tp.month, fp.price
		FROM food_prices fp
		JOIN food_categories fc ON fp.item_code = fc.item_code
		JOIN time_periods tp ON fp.period_id = tp.period_id
		WHERE tp.year = ? AND tp.period_type = 'monthly'
		ORDER BY fc.item_name, tp.month
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly prices: %w", err)
	}
	defer rows.Close()

	var result []MonthlyItemPriceRow
	for rows.Next() {
		var row MonthlyItemPriceRow
		if err := rows.Scan(&row.ItemName, &row.Month, &row.Price); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// RegionalCPITrendRow 大区 CPI 走势
type RegionalCPITrendRow struct {
	RegionName string  `json:"regionName"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	CPIValue   float64 `json:"cpiValue"`
}

// QueryRegionalCPITrends 查询指定品类在各大区的 CPI 走势
func (s *Store) QueryRegionalCPITrends(itemCode string) ([]RegionalCPITrendRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, tp.year, tp.month, cv.value
		FROM cpi_values cv
		JOIN regions r ON cv.region_id = r.region_id
		JOIN time_periods tp ON cv.period_id = tp.period_id
		WHERE cv.item_code = ? AND r.region_type = 'region'
		ORDER BY tp.year, tp.month, r.region_name
	`, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query regional cpi trends: %w", err)
	}
	defer rows.Close()

	var result []RegionalCPITrendRow
	for rows.Next() {
		var row RegionalCPITrendRow
		if err := rows.Scan(&row.RegionName, &row.Year, &row.Month, &row.CPIValue); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// IncomeSalesRow 州收入与食品销售额（同年）
type IncomeSalesRow struct {
	State             string  `json:"state"`
	MedianIncome2023  float64 `json:"medianIncome2023"`
	TotalSalesMillion float64 `json:"totalSalesMillion"`
}

// QueryIncomeSalesByState 查询最新年份各州收入与销售额（供相关性计算）
func (s *Store) QueryIncomeSalesByState() ([]IncomeSalesRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, si.median_income_2023, sfs.total_sales_million
		FROM state_income si
		JOIN state_food_sales sfs
			ON si.region_id = sfs.region_id AND si.period_id = sfs.period_id
		JOIN regions r ON si.region_id = r.region_id
		JOIN time_periods tp ON si.period_id = tp.period_id
		WHERE tp.year = (SELECT MAX(year) FROM time_periods)
		  AND r.region_type = 'state'
		ORDER BY si.median_income_2023 DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sales: %w", err)
	}
	defer rows.Close()

	var result []IncomeSalesRow
	for rows.Next() {
		var row IncomeSalesRow
		if err := rows.Scan(&row.State, &row.MedianIncome2023, &row.TotalSalesMillion); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// MonthlyPriceRow 指定月份各区域价格
type MonthlyPriceRow struct {
	ItemName   string  `json:"itemName"`
	RegionName string  `json:"regionName"`
	Price      float64 `json:"price"`
}

// QueryMonthlyPrices 查询指定年月所有品类的价格
func (s *Store) QueryMonthlyPrices(year, month int) ([]MonthlyPriceRow, error) {
	rows, err := s.db.Query(`
		SELECT fc.item_name, r.region_name, fp.price
		FROM food_prices fp
		JOIN food_categories fc ON fp.item_code = fc.item_code
		JOIN regions r ON fp.region_id = r.region_id
		JOIN time_periods tp ON fp.period_id = tp.period_id
		WHERE tp.year = ? AND tp.month = ?
		ORDER BY r.region_name, fp.price DESC
	`, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly prices: %w", err)
	}
	defer rows.Close()

	var result []MonthlyPriceRow
	for rows.Next() {
		var row MonthlyPriceRow
		if err := rows.Scan(&row.ItemName, &row.RegionName, &row.Price); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// IncomeDistributionRow 大区收入分布（最新年份）
type IncomeDistributionRow struct {
	RegionName          string  `json:"regionName"`
	HouseholdsThousands float64 `json:"householdsThousands"`
	MedianIncome2023    float64 `json:"medianIncome2023"`
	MeanIncome2023      float64 `json:"meanIncome2023"`
}

// QueryRegionalIncomeDistribution 查询最新年份各大区收入分布
func (s *Store) QueryRegionalIncomeDistribution() ([]IncomeDistributionRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, ri.households_thousands,
		       ri.median_income_2023, ri.mean_income_2023
		FROM regional_income ri
		JOIN regions r ON ri.region_id = r.region_id
		JOIN time_periods tp ON ri.period_id = tp.period_id
		WHERE tp.year = (SELECT MAX(year) FROM time_periods)
		  AND r.region_type = 'region'
		ORDER BY ri.median_income_2023 DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query income distribution: %w", err)
	}
	defer rows.Close()

	var result []IncomeDistributionRow
	for rows.Next() {
		var row IncomeDistributionRow
		if err := rows.Scan(&row.RegionName, &row.HouseholdsThousands,
			&row.MedianIncome2023, &row.MeanIncome2023); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// YoYCPIRow 年度 CPI 同比变化
type YoYCPIRow struct {
	Year        int      `json:"year"`
	AvgCPI      float64  `json:"avgCpi"`
	PrevYearCPI *float64 `json:"prevYearCpi,omitempty"`
	YoYChange   *float64 `json:"yoyChange,omitempty"`
}

// QueryYoYCPIChange 查询指定区域与品类的年度 CPI 同比变化
func (s *Store) QueryYoYCPIChange(regionName, itemCode string) ([]YoYCPIRow, error) {
	rows, err := s.db.Query(`
		WITH cpi_by_year AS (
			SELECT tp.year, AVG(cv.value) AS avg_cpi
			FROM cpi_values cv
			JOIN regions r ON cv.region_id = r.region_id
			JOIN time_periods tp ON cv.period_id = tp.period_id
			WHERE r.region_name = ? AND cv.item_code = ?
			GROUP BY tp.year
		)
		SELECT curr.year, curr.avg_cpi, prev.avg_cpi,
		       (curr.avg_cpi - prev.avg_cpi) / prev.avg_cpi * 100
		FROM cpi_by_year curr
		LEFT JOIN cpi_by_year prev ON curr.year = prev.year + 1
		ORDER BY curr.year
	`, regionName, itemCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query yoy cpi change: %w", err)
	}
	defer rows.Close()

	var result []YoYCPIRow
	for rows.Next() {
		var row YoYCPIRow
		var prev, change sql.NullFloat64
		if err := rows.Scan(&row.Year, &row.AvgCPI, &prev, &change); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if prev.Valid {
			row.PrevYearCPI = &prev.Float64
		}
		if change.Valid {
			row.YoYChange = &change.Float64
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// PriceRangeRow 品类价格区间（最新年份）
type PriceRangeRow struct {
	ItemName   string  `json:"itemName"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
	AvgPrice   float64 `json:"avgPrice"`
	PriceRange float64 `json:"priceRange"`
}

// QueryPriceRanges 查询最新年份各品类价格区间
func (s *Store) QueryPriceRanges() ([]PriceRangeRow, error) {
	rows, err := s.db.Query(`
		SELECT fc.item_name,
		       MIN(fp.price), MAX(fp.price), AVG(fp.price),
		       MAX(fp.price) - MIN(fp.price) AS price_range
		FROM food_prices fp
		JOIN food_categories fc ON fp.item_code = fc.item_code
		JOIN time_periods tp ON fp.period_id = tp.period_id
		WHERE tp.year = (SELECT MAX(year) FROM time_periods)
		GROUP BY fc.item_name
		ORDER BY price_range DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price ranges: %w", err)
	}
	defer rows.Close()

	var result []PriceRangeRow
	for rows.Next() {
		var row PriceRangeRow
		if err := rows.Scan(&row.ItemName, &row.MinPrice, &row.MaxPrice,
			&row.AvgPrice, &row.PriceRange); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// StateMedianRow 州中位数收入（最新年份，供分位计算）
type StateMedianRow struct {
	State            string  `json:"state"`
	MedianIncome2023 float64 `json:"medianIncome2023"`
}

// QueryStateMediansLatestYear 查询最新年份各州中位数收入
func (s *Store) QueryStateMediansLatestYear() ([]StateMedianRow, error) {
	rows, err := s.db.Query(`
		SELECT r.region_name, si.median_income_2023
		FROM state_income si
		JOIN regions r ON si.region_id = r.region_id
		JOIN time_periods tp ON si.period_id = tp.period_id
		WHERE tp.year = (SELECT MAX(year) FROM time_periods)
		  AND r.region_type = 'state'
		ORDER BY si.median_income_2023
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query state medians: %w", err)
	}
	defer rows.Close()

	var result []StateMedianRow
	for rows.Next() {
		var row StateMedianRow
		if err := rows.Scan(&row.State, &row.MedianIncome2023); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// SeasonalPatternRow 季节性价格模式
type SeasonalPatternRow struct {
	ItemName string  `json:"itemName"`
	Month    int     `json:"month"`
	AvgPrice float64 `json:"avgPrice"`
}

// QuerySeasonalPatterns 查询各品类逐月平均价格
func (s *Store) QuerySeasonalPatterns() ([]SeasonalPatternRow, error) {
	rows, err := s.db.Query(`
		SELECT fc.item_name, tp.month, AVG(fp.price)
		FROM food_prices fp
		JOIN food_categories fc ON fp.item_code = fc.item_code
		JOIN time_periods tp ON fp.period_id = tp.period_id
		WHERE tp.month > 0
		GROUP BY fc.item_name, tp.month
		ORDER BY fc.item_name, tp.month
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasonal patterns: %w", err)
	}
	defer rows.Close()

	var result []SeasonalPatternRow
	for rows.Next() {
		var row SeasonalPatternRow
		if err := rows.Scan(&row.ItemName, &row.Month, &row.AvgPrice); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
