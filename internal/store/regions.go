package store

import (
	"database/sql"
	"fmt"

	"econstat/internal/model"
)

// UpsertRegion 按名称幂等创建区域，返回 region_id
// 已存在时保留首次写入的 region_type（与维表语义一致）
func (s *Store) UpsertRegion(name string, regionType model.RegionType) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO regions (region_name, region_type) VALUES (?, ?)
		ON CONFLICT(region_name) DO UPDATE SET region_name = excluded.region_name
		RETURNING region_id
	`, name, string(regionType)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert region %q: %w", name, err)
	}
	return id, nil
}

// GetRegionByName 按名称查询区域
func (s *Store) GetRegionByName(name string) (*model.Region, error) {
	var r model.Region
	err := s.db.QueryRow(`
		SELECT region_id, region_name, region_type FROM regions WHERE region_name = ?
	`, name).Scan(&r.ID, &r.Name, &r.Type)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("region not found: %s", name)
		}
		return nil, fmt.Errorf("failed to query region: %w", err)
	}
	return &r, nil
}

// ListRegions 列出指定类型的区域，类型为空时返回全部
func (s *Store) ListRegions(regionType model.RegionType) ([]model.Region, error) {
	query := "SELECT region_id, region_name, region_type FROM regions"
	args := []interface{}{}
	if regionType != "" {
		query += " WHERE region_type = ?"
		args = append(args, string(regionType))
	}
	query += " ORDER BY region_name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	var regions []model.Region
	for rows.Next() {
		var r model.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Type); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// CountRegions 统计区域数量
func (s *Store) CountRegions() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM regions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count regions: %w", err)
	}
	return count, nil
}
