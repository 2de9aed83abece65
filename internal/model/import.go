package model

import "time"

// StageResult 单个加载阶段的处理结果
type StageResult struct {
	Stage        string        `json:"stage"`
	Status       string        `json:"status"` // loaded/error
	SourceRows   int           `json:"sourceRows"`
	SkippedRows  int           `json:"skippedRows"`
	UpsertedRows int           `json:"upsertedRows"`
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ImportReport 一次 ETL 运行的汇总报告
type ImportReport struct {
	JobID        string        `json:"jobId"`
	CSVDir       string        `json:"csvDir"`
	Stages       []StageResult `json:"stages"`
	TotalRows    int           `json:"totalRows"`
	SkippedRows  int           `json:"skippedRows"`
	UpsertedRows int           `json:"upsertedRows"`
	Duration     time.Duration `json:"duration"`
}
