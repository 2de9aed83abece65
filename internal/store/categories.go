package store

import (
	"fmt"

	"econstat/internal/model"
)

// UpsertFoodCategory 写入食品品类，已存在时更新名称
func (s *Store) UpsertFoodCategory(itemCode, itemName string) error {
	_, err := s.db.Exec(`
		INSERT INTO food_categories (item_code, item_name) VALUES (?, ?)
		ON CONFLICT(item_code) DO UPDATE SET item_name = excluded.item_name
	`, itemCode, itemName)
	if err != nil {
		return fmt.Errorf("failed to upsert food category %s: %w", itemCode, err)
	}
	return nil
}

// UpsertCPICategory 写入 CPI 篮子品类，已存在时更新名称
func (s *Store) UpsertCPICategory(itemCode, itemName string) error {
	_, err := s.db.Exec(`
		INSERT INTO cpi_categories (item_code, item_name) VALUES (?, ?)
		ON CONFLICT(item_code) DO UPDATE SET item_name = excluded.item_name
	`, itemCode, itemName)
	if err != nil {
		return fmt.Errorf("failed to upsert cpi category %s: %w", itemCode, err)
	}
	return nil
}

// ListFoodCategories 列出食品品类（按名称排序）
func (s *Store) ListFoodCategories() ([]model.Category, error) {
	return s.listCategories("food_categories")
}

// ListCPICategories 列出 CPI 品类（按名称排序）
func (s *Store) ListCPICategories() ([]model.Category, error) {
	return s.listCategories("cpi_categories")
}

func (s *Store) listCategories(table string) ([]model.Category, error) {
	// 表名来自固定集合，非用户输入
	rows, err := s.db.Query("SELECT item_code, item_name FROM " + table + " ORDER BY item_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ItemCode, &c.ItemName); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
