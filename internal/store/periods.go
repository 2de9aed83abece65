package store

import (
	"fmt"

	"econstat/internal/model"
)

// UpsertPeriod 按 (year, month) 幂等创建时间周期，返回 period_id
// month 为 0 表示年度周期
func (s *Store) UpsertPeriod(year, month int) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO time_periods (year, month, period_type) VALUES (?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET year = excluded.year
		RETURNING period_id
	`, year, month, string(model.PeriodTypeOf(month))).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert period %d-%02d: %w", year, month, err)
	}
	return id, nil
}

// MaxYear 返回已有数据的最大年份，无数据时返回 0
func (s *Store) MaxYear() (int, error) {
	var year int
	err := s.db.QueryRow("SELECT COALESCE(MAX(year), 0) FROM time_periods").Scan(&year)
	if err != nil {
		return 0, fmt.Errorf("failed to query max year: %w", err)
	}
	return year, nil
}

// ListYears 列出已有数据的年份（升序）
func (s *Store) ListYears() ([]int, error) {
	rows, err := s.db.Query("SELECT DISTINCT year FROM time_periods ORDER BY year")
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}
