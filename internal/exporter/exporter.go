package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"econstat/internal/analysis"
	"econstat/internal/store"
)

// Exporter 分析结果导出器，输出多 sheet 的 Excel 工作簿
type Exporter struct {
	store    *store.Store
	analyzer *analysis.Analyzer
}

// NewExporter 创建导出器
func NewExporter(st *store.Store) *Exporter {
	return &Exporter{
		store:    st,
		analyzer: analysis.New(st),
	}
}

// ProgressEvent 导出进度
type ProgressEvent struct {
	Stage   string
	Percent int
}

// ProgressFunc 进度回调
type ProgressFunc func(ProgressEvent)

// ExportOptions 导出选项
type ExportOptions struct {
	Progress ProgressFunc
}

type sheetBuilder struct {
	name  string
	build func(f *excelize.File, sheet string) error
}

// Export 生成分析结果工作簿
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	f := excelize.NewFile()

	sheets := []sheetBuilder{
		{"收入差距", e.fillIncomeInequality},
		{"销售排名", e.fillSalesRankings},
		{"价格区间", e.fillPriceRanges},
		{"收入分布", e.fillIncomeDistribution},
		{"价格波动", e.fillVolatility},
	}

	progress := func(stage string, percent int) {
		if opts.Progress != nil {
			opts.Progress(ProgressEvent{Stage: stage, Percent: percent})
		}
	}

	for i, sb := range sheets {
		progress(sb.name, i*100/len(sheets))

		if i == 0 {
			// 复用默认 sheet
			if err := f.SetSheetName(f.GetSheetName(0), sb.name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("重命名 sheet 失败: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sb.name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("创建 sheet %s 失败: %w", sb.name, err)
			}
		}

		if err := sb.build(f, sb.name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("填充 sheet %s 失败: %w", sb.name, err)
		}
	}

	progress("完成", 100)
	f.SetActiveSheet(0)
	return f, nil
}

// writeHeader 写入表头并设置列宽
func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	endCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", endCol, 18)
}

// writeRow 写入一行数据
func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillIncomeInequality(f *excelize.File, sheet string) error {
	rows, err := e.store.QueryIncomeInequality()
	if err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"大区", "年份", "中位收入(2023美元)", "平均收入(2023美元)", "均值中位差"}); err != nil {
		return err
	}
	for i, row := range rows {
		err := writeRow(f, sheet, i+2, []interface{}{
			row.RegionName, row.Year, row.MedianIncome2023, row.MeanIncome2023, row.IncomeGap,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillSalesRankings(f *excelize.File, sheet string) error {
	year, err := e.store.MaxYear()
	if err != nil {
		return err
	}
	rows, err := e.store.QueryStateFoodSalesRankings(year)
	if err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"州", "年份", "食品销售额(百万美元)"}); err != nil {
		return err
	}
	for i, row := range rows {
		err := writeRow(f, sheet, i+2, []interface{}{row.State, row.Year, row.TotalSalesMillion})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillPriceRanges(f *excelize.File, sheet string) error {
	rows, err := e.store.QueryPriceRanges()
	if err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"品类", "最低价", "最高价", "平均价", "价差"}); err != nil {
		return err
	}
	for i, row := range rows {
		err := writeRow(f, sheet, i+2, []interface{}{
			row.ItemName, row.MinPrice, row.MaxPrice, row.AvgPrice, row.PriceRange,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillIncomeDistribution(f *excelize.File, sheet string) error {
	rows, err := e.store.QueryRegionalIncomeDistribution()
	if err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"大区", "家庭数(千户)", "中位收入(2023美元)", "平均收入(2023美元)"}); err != nil {
		return err
	}
	for i, row := range rows {
		err := writeRow(f, sheet, i+2, []interface{}{
			row.RegionName, row.HouseholdsThousands, row.MedianIncome2023, row.MeanIncome2023,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillVolatility(f *excelize.File, sheet string) error {
	year, err := e.store.MaxYear()
	if err != nil {
		return err
	}
	rows, err := e.analyzer.FoodPriceVolatility(year)
	if err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []string{"品类", "平均价格", "波动(标准差)", "覆盖月数"}); err != nil {
		return err
	}
	for i, row := range rows {
		err := writeRow(f, sheet, i+2, []interface{}{
			row.ItemName, row.AvgPrice, row.Volatility, row.MonthsTracked,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
