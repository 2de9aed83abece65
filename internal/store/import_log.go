package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportLog 导入日志记录
type ImportLog struct {
	ID           int64      `json:"id"`
	JobID        string     `json:"jobId"`
	CSVDir       string     `json:"csvDir"`
	Status       string     `json:"status"` // processing/completed/failed
	TotalRows    int        `json:"totalRows"`
	SkippedRows  int        `json:"skippedRows"`
	UpsertedRows int        `json:"upsertedRows"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 import_log id
func (s *Store) CreateImportLog(jobID, csvDir string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (job_id, csv_dir, status) VALUES (?, ?, 'processing')
	`, jobID, csvDir)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(id int64, totalRows, skippedRows, upsertedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			total_rows = ?,
			skipped_rows = ?,
			upserted_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalRows, skippedRows, upsertedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to finish import log: %w", err)
	}
	return nil
}

// LastImportLog 获取最近一次导入日志，无记录时返回 nil
func (s *Store) LastImportLog() (*ImportLog, error) {
	var l ImportLog
	var completedAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, job_id, csv_dir, status, total_rows, skipped_rows, upserted_rows,
		       error_message, started_at, completed_at
		FROM import_logs ORDER BY id DESC LIMIT 1
	`).Scan(&l.ID, &l.JobID, &l.CSVDir, &l.Status, &l.TotalRows, &l.SkippedRows,
		&l.UpsertedRows, &l.ErrorMessage, &l.StartedAt, &completedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query last import log: %w", err)
	}
	if completedAt.Valid {
		l.CompletedAt = &completedAt.Time
	}
	return &l, nil
}
