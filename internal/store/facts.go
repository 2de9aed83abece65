package store

import (
	"fmt"

	"econstat/internal/model"
)

// UpsertFoodPrice 按 (region_id, item_code, period_id) 写入食品价格，冲突时覆盖
func (s *Store) UpsertFoodPrice(p model.FoodPrice) error {
	_, err := s.db.Exec(`
		INSERT INTO food_prices (region_id, item_code, period_id, price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(region_id, item_code, period_id) DO UPDATE SET price = excluded.price
	`, p.RegionID, p.ItemCode, p.PeriodID, p.Price)
	if err != nil {
		return fmt.Errorf("failed to upsert food price: %w", err)
	}
	return nil
}

// UpsertCPIValue 按 (region_id, item_code, period_id) 写入 CPI 观测值，冲突时覆盖
func (s *Store) UpsertCPIValue(v model.CPIValue) error {
	_, err := s.db.Exec(`
		INSERT INTO cpi_values (region_id, item_code, period_id, value, base_period, base_value)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_id, item_code, period_id) DO UPDATE SET
			value = excluded.value,
			base_period = excluded.base_period,
			base_value = excluded.base_value
	`, v.RegionID, v.ItemCode, v.PeriodID, v.Value, v.BasePeriod, v.BaseValue)
	if err != nil {
		return fmt.Errorf("failed to upsert cpi value: %w", err)
	}
	return nil
}

// UpsertStateFoodSales 按 (region_id, period_id) 写入州食品销售额，冲突时覆盖
func (s *Store) UpsertStateFoodSales(v model.StateFoodSales) error {
	_, err := s.db.Exec(`
		INSERT INTO state_food_sales (region_id, period_id, total_sales_million)
		VALUES (?, ?, ?)
		ON CONFLICT(region_id, period_id) DO UPDATE SET
			total_sales_million = excluded.total_sales_million
	`, v.RegionID, v.PeriodID, v.TotalSalesMillion)
	if err != nil {
		return fmt.Errorf("failed to upsert state food sales: %w", err)
	}
	return nil
}

// UpsertRegionalIncome 按 (region_id, period_id) 写入大区收入，冲突时覆盖
func (s *Store) UpsertRegionalIncome(v model.RegionalIncome) error {
	_, err := s.db.Exec(`
		INSERT INTO regional_income
			(region_id, period_id, households_thousands,
			 median_income_current, median_income_2023,
			 mean_income_current, mean_income_2023)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_id, period_id) DO UPDATE SET
			households_thousands = excluded.households_thousands,
			median_income_current = excluded.median_income_current,
			median_income_2023 = excluded.median_income_2023,
			mean_income_current = excluded.mean_income_current,
			mean_income_2023 = excluded.mean_income_2023
	`, v.RegionID, v.PeriodID, v.HouseholdsThousands,
		v.MedianIncomeCurrent, v.MedianIncome2023,
		v.MeanIncomeCurrent, v.MeanIncome2023)
	if err != nil {
		return fmt.Errorf("failed to upsert regional income: %w", err)
	}
	return nil
}

// UpsertStateIncome 按 (region_id, period_id) 写入州收入，冲突时覆盖
func (s *Store) UpsertStateIncome(v model.StateIncome) error {
	_, err := s.db.Exec(`
		INSERT INTO state_income
			(region_id, period_id, median_income_current, median_income_2023,
			 standard_error_current, standard_error_2023)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_id, period_id) DO UPDATE SET
			median_income_current = excluded.median_income_current,
			median_income_2023 = excluded.median_income_2023,
			standard_error_current = excluded.standard_error_current,
			standard_error_2023 = excluded.standard_error_2023
	`, v.RegionID, v.PeriodID, v.MedianIncomeCurrent, v.MedianIncome2023,
		v.StandardErrorCurrent, v.StandardError2023)
	if err != nil {
		return fmt.Errorf("failed to upsert state income: %w", err)
	}
	return nil
}

// CountTable 统计指定事实表的行数
func (s *Store) CountTable(table string) (int, error) {
	switch table {
	case "food_prices", "cpi_values", "state_food_sales", "regional_income", "state_income",
		"food_categories", "cpi_categories":
	default:
		return 0, fmt.Errorf("unknown table: %s", table)
	}
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
