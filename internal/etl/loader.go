package etl

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"econstat/internal/model"
	"econstat/internal/store"
)

// 数据源文件名（相对 csvDir）
const (
	fileFoodItems       = "food_prices_items.csv"
	fileCPIBasket       = "cpi_basket.csv"
	fileFoodSeries      = "food_prices_series.csv"
	fileFoodMetadata    = "food_prices_metadata.csv"
	fileFoodAreas       = "food_prices_area.csv"
	fileCPISeries       = "cpi_series.csv"
	fileCPIMetadata     = "cpi_metadata.csv"
	fileCPIAreas        = "cpi_area.csv"
	fileStateSales      = "state_sales_no_taxes_tips.csv"
	fileRegionalIncome  = "income_by_region.csv"
	fileStateIncomeCur  = "income_by_state_current_dollars.csv"
	fileStateIncome2023 = "income_by_state_2023_dollars.csv"
)

// 州收入宽表覆盖的年份区间
const (
	stateIncomeFirstYear = 1984
	stateIncomeLastYear  = 2023
)

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/stage_start/stage_done/done/error
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Loader ETL 加载器：按固定顺序驱动各数据源的加载
// 维表在前、事实表在后；任一阶段失败即中止，连接在收尾步骤保证释放
type Loader struct {
	store  *store.Store
	csvDir string
	ctx    *ReconcileContext
}

// NewLoader 创建加载器
func NewLoader(st *store.Store, csvDir string) *Loader {
	return &Loader{
		store:  st,
		csvDir: csvDir,
		ctx:    NewReconcileContext(st),
	}
}

// Load 异步执行加载，返回进度通道
func (l *Loader) Load() <-chan ProgressEvent {
	progress := make(chan ProgressEvent, 100)

	go func() {
		defer close(progress)
		if _, err := l.run(progress); err != nil {
			log.Printf("ETL 运行失败: %v", err)
		}
	}()

	return progress
}

// Run 同步执行加载
func (l *Loader) Run() (*model.ImportReport, error) {
	return l.run(nil)
}

type stageFunc struct {
	name string
	fn   func() (model.StageResult, error)
}

// run 执行全部加载阶段
func (l *Loader) run(progress chan<- ProgressEvent) (*model.ImportReport, error) {
	startTime := time.Now()

	report := &model.ImportReport{
		JobID:  uuid.NewString(),
		CSVDir: l.csvDir,
	}

	l.send(progress, ProgressEvent{
		Type:      "start",
		Message:   "开始 ETL 加载",
		Data:      map[string]string{"jobId": report.JobID, "csvDir": l.csvDir},
		Timestamp: time.Now(),
	})

	logID, err := l.store.CreateImportLog(report.JobID, l.csvDir)
	if err != nil {
		l.send(progress, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("创建导入日志失败: %v", err),
			Timestamp: time.Now(),
		})
		return nil, err
	}

	stages := []stageFunc{
		{"food_categories", l.loadFoodCategories},
		{"cpi_categories", l.loadCPICategories},
		{"food_prices", l.loadFoodPrices},
		{"cpi_values", l.loadCPIValues},
		{"state_food_sales", l.loadStateFoodSales},
		{"regional_income", l.loadRegionalIncome},
		{"state_income", l.loadStateIncome},
	}

	for _, stage := range stages {
		l.send(progress, ProgressEvent{
			Type:      "stage_start",
			Message:   fmt.Sprintf("正在加载: %s", stage.name),
			Data:      map[string]string{"stage": stage.name},
			Timestamp: time.Now(),
		})

		stageStart := time.Now()
		result, err := stage.fn()
		result.Stage = stage.name
		result.Duration = time.Since(stageStart)

		if err != nil {
			result.Status = "error"
			result.Errors = append(result.Errors, err.Error())
			report.Stages = append(report.Stages, result)

			log.Printf("阶段 %s 失败: %v", stage.name, err)
			if logErr := l.store.FinishImportLog(logID, report.TotalRows, report.SkippedRows,
				report.UpsertedRows, "failed", err.Error()); logErr != nil {
				log.Printf("更新导入日志失败: %v", logErr)
			}
			l.send(progress, ProgressEvent{
				Type:      "error",
				Message:   fmt.Sprintf("阶段 %s 失败: %v", stage.name, err),
				Timestamp: time.Now(),
			})
			return report, fmt.Errorf("stage %s: %w", stage.name, err)
		}

		result.Status = "loaded"
		report.Stages = append(report.Stages, result)
		report.TotalRows += result.SourceRows
		report.SkippedRows += result.SkippedRows
		report.UpsertedRows += result.UpsertedRows

		l.send(progress, ProgressEvent{
			Type: "stage_done",
			Message: fmt.Sprintf("阶段 %s 完成: 源 %d 行, 跳过 %d 行, 写入 %d 行",
				stage.name, result.SourceRows, result.SkippedRows, result.UpsertedRows),
			Data:      result,
			Timestamp: time.Now(),
		})
	}

	report.Duration = time.Since(startTime)

	if err := l.store.FinishImportLog(logID, report.TotalRows, report.SkippedRows,
		report.UpsertedRows, "completed", ""); err != nil {
		log.Printf("更新导入日志失败: %v", err)
	}

	l.send(progress, ProgressEvent{
		Type:      "done",
		Message:   "ETL 加载完成",
		Data:      report,
		Timestamp: time.Now(),
	})

	return report, nil
}

// loadFoodCategories 加载食品品类维表
func (l *Loader) loadFoodCategories() (model.StageResult, error) {
	var result model.StageResult

	table, err := readCSVFile(filepath.Join(l.csvDir, fileFoodItems), []string{"item_code", "item_name"})
	if err != nil {
		return result, err
	}

	for _, row := range table.rows {
		result.SourceRows++
		if err := l.store.UpsertFoodCategory(table.field(row, "item_code"), table.field(row, "item_name")); err != nil {
			return result, err
		}
		result.UpsertedRows++
	}
	return result, nil
}

// loadCPICategories 加载 CPI 篮子品类维表
func (l *Loader) loadCPICategories() (model.StageResult, error) {
	var result model.StageResult

	table, err := readCSVFile(filepath.Join(l.csvDir, fileCPIBasket), []string{"item_code", "item_name"})
	if err != nil {
		return result, err
	}

	for _, row := range table.rows {
		result.SourceRows++
		if err := l.store.UpsertCPICategory(table.field(row, "item_code"), table.field(row, "item_name")); err != nil {
			return result, err
		}
		result.UpsertedRows++
	}
	return result, nil
}

// seriesMeta 序列元数据（首条记录优先）
type seriesMeta struct {
	areaCode   string
	itemCode   string
	basePeriod string
}

// loadSeriesMeta 读取序列元数据表，按 series_id 索引
func loadSeriesMeta(path string, withBasePeriod bool) (map[string]seriesMeta, error) {
	required := []string{"series_id", "area_code", "item_code"}
	if withBasePeriod {
		required = append(required, "base_period")
	}
	table, err := readCSVFile(path, required)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]seriesMeta, len(table.rows))
	for _, row := range table.rows {
		sid := table.field(row, "series_id")
		if _, exists := meta[sid]; exists {
			continue
		}
		m := seriesMeta{
			areaCode: table.field(row, "area_code"),
			itemCode: table.field(row, "item_code"),
		}
		if withBasePeriod {
			m.basePeriod = table.field(row, "base_period")
		}
		meta[sid] = m
	}
	return meta, nil
}

// loadAreaNames 读取区域对照表，按 area_code 索引
func loadAreaNames(path string) (map[string]string, error) {
	table, err := readCSVFile(path, []string{"area_code", "area_name"})
	if err != nil {
		return nil, err
	}

	areas := make(map[string]string, len(table.rows))
	for _, row := range table.rows {
		code := table.field(row, "area_code")
		if _, exists := areas[code]; exists {
			continue
		}
		areas[code] = table.field(row, "area_name")
	}
	return areas, nil
}

// loadFoodPrices 加载食品价格事实表（月度+年度双周期）
func (l *Loader) loadFoodPrices() (model.StageResult, error) {
	var result model.StageResult

	series, err := readCSVFile(filepath.Join(l.csvDir, fileFoodSeries),
		[]string{"series_id", "year", "period", "value"})
	if err != nil {
		return result, err
	}
	meta, err := loadSeriesMeta(filepath.Join(l.csvDir, fileFoodMetadata), false)
	if err != nil {
		return result, err
	}
	areas, err := loadAreaNames(filepath.Join(l.csvDir, fileFoodAreas))
	if err != nil {
		return result, err
	}

	acc := NewAccumulator()

	for _, row := range series.rows {
		result.SourceRows++

		// 缺失/不可解析的值静默过滤，不进入聚合
		value, ok := parseSeriesValue(series.field(row, "value"))
		if !ok {
			result.SkippedRows++
			continue
		}

		sid := series.field(row, "series_id")
		m, ok := meta[sid]
		if !ok {
			return result, fmt.Errorf("no metadata for series %s", sid)
		}
		areaName, ok := areas[m.areaCode]
		if !ok {
			return result, fmt.Errorf("no area for code %s (series %s)", m.areaCode, sid)
		}

		year, err := strconv.Atoi(series.field(row, "year"))
		if err != nil {
			return result, fmt.Errorf("invalid year %q for series %s", series.field(row, "year"), sid)
		}
		month, err := ParsePeriodCode(series.field(row, "period"))
		if err != nil {
			return result, err
		}

		regionIDs, err := l.ctx.ResolveArea(areaName, model.RegionTypeRegion)
		if err != nil {
			return result, err
		}

		monthlyID, err := l.ctx.ResolvePeriod(year, month)
		if err != nil {
			return result, err
		}
		yearlyID, err := l.ctx.ResolvePeriod(year, 0)
		if err != nil {
			return result, err
		}

		// 同一原始值同时计入月度与年度周期；跨州标签展开为每州一条
		for _, regionID := range regionIDs {
			acc.Add(ObsKey{RegionID: regionID, PeriodID: monthlyID, ItemCode: m.itemCode}, value)
			acc.Add(ObsKey{RegionID: regionID, PeriodID: yearlyID, ItemCode: m.itemCode}, value)
		}
	}

	for _, agg := range acc.Reduce() {
		err := l.store.UpsertFoodPrice(model.FoodPrice{
			RegionID: agg.Key.RegionID,
			ItemCode: agg.Key.ItemCode,
			PeriodID: agg.Key.PeriodID,
			Price:    agg.Mean,
		})
		if err != nil {
			return result, err
		}
		result.UpsertedRows++
	}
	return result, nil
}

// parseBasePeriod 拆分基期声明，如 "1982-84=100" -> ("1982-84", 100)
func parseBasePeriod(s string) (string, float64, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid base period: %q", s)
	}
	baseValue, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid base period value: %q", s)
	}
	return strings.TrimSpace(parts[0]), baseValue, nil
}

// loadCPIValues 加载 CPI 事实表（含基期归约）
func (l *Loader) loadCPIValues() (model.StageResult, error) {
	var result model.StageResult

	series, err := readCSVFile(filepath.Join(l.csvDir, fileCPISeries),
		[]string{"series_id", "year", "period", "value"})
	if err != nil {
		return result, err
	}
	meta, err := loadSeriesMeta(filepath.Join(l.csvDir, fileCPIMetadata), true)
	if err != nil {
		return result, err
	}
	areas, err := loadAreaNames(filepath.Join(l.csvDir, fileCPIAreas))
	if err != nil {
		return result, err
	}

	acc := NewAccumulator()

	for _, row := range series.rows {
		result.SourceRows++

		value, ok := parseSeriesValue(series.field(row, "value"))
		if !ok {
			result.SkippedRows++
			continue
		}

		sid := series.field(row, "series_id")
		m, ok := meta[sid]
		if !ok {
			return result, fmt.Errorf("no metadata for series %s", sid)
		}
		areaName, ok := areas[m.areaCode]
		if !ok {
			return result, fmt.Errorf("no area for code %s (series %s)", m.areaCode, sid)
		}

		basePeriod, baseValue, err := parseBasePeriod(m.basePeriod)
		if err != nil {
			return result, fmt.Errorf("series %s: %w", sid, err)
		}

		year, err := strconv.Atoi(series.field(row, "year"))
		if err != nil {
			return result, fmt.Errorf("invalid year %q for series %s", series.field(row, "year"), sid)
		}
		// 无法识别的周期编码为硬错误，立即中止而非跳过
		month, err := ParsePeriodCode(series.field(row, "period"))
		if err != nil {
			return result, err
		}

		regionIDs, err := l.ctx.ResolveArea(areaName, model.RegionTypeRegion)
		if err != nil {
			return result, err
		}

		monthlyID, err := l.ctx.ResolvePeriod(year, month)
		if err != nil {
			return result, err
		}
		yearlyID, err := l.ctx.ResolvePeriod(year, 0)
		if err != nil {
			return result, err
		}

		for _, regionID := range regionIDs {
			acc.AddIndexed(ObsKey{RegionID: regionID, PeriodID: monthlyID, ItemCode: m.itemCode},
				value, basePeriod, baseValue)
			acc.AddIndexed(ObsKey{RegionID: regionID, PeriodID: yearlyID, ItemCode: m.itemCode},
				value, basePeriod, baseValue)
		}
	}

	for _, agg := range acc.Reduce() {
		err := l.store.UpsertCPIValue(model.CPIValue{
			RegionID:   agg.Key.RegionID,
			ItemCode:   agg.Key.ItemCode,
			PeriodID:   agg.Key.PeriodID,
			Value:      agg.Mean,
			BasePeriod: agg.BasePeriod,
			BaseValue:  agg.BaseValue,
		})
		if err != nil {
			return result, err
		}
		result.UpsertedRows++
	}
	return result, nil
}

// loadStateFoodSales 加载州食品销售额事实表
func (l *Loader) loadStateFoodSales() (model.StageResult, error) {
	var result model.StageResult

	table, err := readCSVFile(filepath.Join(l.csvDir, fileStateSales),
		[]string{"State", "Year", "Total_sales_million"})
	if err != nil {
		return result, err
	}

	for _, row := range table.rows {
		result.SourceRows++

		// 州名已是规范格式，解析为 state 类型
		regionIDs, err := l.ctx.ResolveArea(table.field(row, "State"), model.RegionTypeState)
		if err != nil {
			return result, err
		}

		year, err := strconv.Atoi(table.field(row, "Year"))
		if err != nil {
			return result, fmt.Errorf("invalid year %q in %s", table.field(row, "Year"), fileStateSales)
		}
		periodID, err := l.ctx.ResolvePeriod(year, 0)
		if err != nil {
			return result, err
		}

		sales, err := parseFloat(table.field(row, "Total_sales_million"))
		if err != nil {
			return result, fmt.Errorf("invalid sales value for %s: %w", table.field(row, "State"), err)
		}

		err = l.store.UpsertStateFoodSales(model.StateFoodSales{
			RegionID:          regionIDs[0],
			PeriodID:          periodID,
			TotalSalesMillion: sales,
		})
		if err != nil {
			return result, err
		}
		result.UpsertedRows++
	}
	return result, nil
}

// loadRegionalIncome 加载大区收入事实表
func (l *Loader) loadRegionalIncome() (model.StageResult, error) {
	var result model.StageResult

	table, err := readCSVFile(filepath.Join(l.csvDir, fileRegionalIncome), []string{
		"Region", "Year", "Number_thousands",
		"Median_income_Current_dollars", "Median_income_2023_dollars",
		"Mean_income_Current_dollars", "Mean_income_2023_dollars",
	})
	if err != nil {
		return result, err
	}

	for _, row := range table.rows {
		result.SourceRows++

		regionIDs, err := l.ctx.ResolveArea(table.field(row, "Region"), model.RegionTypeRegion)
		if err != nil {
			return result, err
		}

		// Year 列可能带括号后缀（如 "2023 (40)"），取前导整数
		year, err := leadingInt(table.field(row, "Year"))
		if err != nil {
			return result, fmt.Errorf("invalid year %q in %s", table.field(row, "Year"), fileRegionalIncome)
		}
		periodID, err := l.ctx.ResolvePeriod(year, 0)
		if err != nil {
			return result, err
		}

		households, ok1 := parseOptionalFloat(table.field(row, "Number_thousands"))
		medianCur, ok2 := parseOptionalFloat(table.field(row, "Median_income_Current_dollars"))
		median2023, ok3 := parseOptionalFloat(table.field(row, "Median_income_2023_dollars"))
		meanCur, ok4 := parseOptionalFloat(table.field(row, "Mean_income_Current_dollars"))
		mean2023, ok5 := parseOptionalFloat(table.field(row, "Mean_income_2023_dollars"))
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			log.Printf("跳过无效数据行: %s %d", table.field(row, "Region"), year)
			result.SkippedRows++
			continue
		}

		err = l.store.UpsertRegionalIncome(model.RegionalIncome{
			RegionID:            regionIDs[0],
			PeriodID:            periodID,
			HouseholdsThousands: households,
			MedianIncomeCurrent: medianCur,
			MedianIncome2023:    median2023,
			MeanIncomeCurrent:   meanCur,
			MeanIncome2023:      mean2023,
		})
		if err != nil {
			return result, err
		}
		result.UpsertedRows++
	}
	return result, nil
}

// loadStateIncome 加载州收入事实表
// 两份宽表按州对齐：现价口径列名形如 "1984_Median_income"，
// 2023 年美元口径列名形如 "1984 Median income"
func (l *Loader) loadStateIncome() (model.StageResult, error) {
	var result model.StageResult

	current, err := readCSVFile(filepath.Join(l.csvDir, fileStateIncomeCur), []string{"State"})
	if err != nil {
		return result, err
	}
	adjusted, err := readCSVFile(filepath.Join(l.csvDir, fileStateIncome2023), []string{"State"})
	if err != nil {
		return result, err
	}

	// 2023 美元口径按州索引
	adjustedByState := make(map[string][]string, len(adjusted.rows))
	for _, row := range adjusted.rows {
		state := adjusted.field(row, "State")
		if _, exists := adjustedByState[state]; !exists {
			adjustedByState[state] = row
		}
	}

	for _, row := range current.rows {
		result.SourceRows++

		state := current.field(row, "State")
		adjustedRow, ok := adjustedByState[state]
		if !ok {
			return result, fmt.Errorf("state %q missing from %s", state, fileStateIncome2023)
		}

		regionIDs, err := l.ctx.ResolveArea(state, model.RegionTypeState)
		if err != nil {
			return result, err
		}
		regionID := regionIDs[0]

		for year := stateIncomeFirstYear; year <= stateIncomeLastYear; year++ {
			colCurrent := fmt.Sprintf("%d_Median_income", year)
			colAdjusted := fmt.Sprintf("%d Median income", year)
			colErrCurrent := fmt.Sprintf("%d_Standard_error", year)
			colErrAdjusted := fmt.Sprintf("%d Standard error", year)

			// 某些年份列可能整体缺失
			if !current.hasColumn(colCurrent) || !adjusted.hasColumn(colAdjusted) {
				continue
			}

			medianCur, ok1 := parseOptionalFloat(current.field(row, colCurrent))
			median2023, ok2 := parseOptionalFloat(adjusted.field(adjustedRow, colAdjusted))
			errCur, ok3 := parseOptionalFloat(current.field(row, colErrCurrent))
			err2023, ok4 := parseOptionalFloat(adjusted.field(adjustedRow, colErrAdjusted))
			if !ok1 || !ok2 || !ok3 || !ok4 {
				result.SkippedRows++
				continue
			}

			periodID, err := l.ctx.ResolvePeriod(year, 0)
			if err != nil {
				return result, err
			}

			err = l.store.UpsertStateIncome(model.StateIncome{
				RegionID:             regionID,
				PeriodID:             periodID,
				MedianIncomeCurrent:  medianCur,
				MedianIncome2023:     median2023,
				StandardErrorCurrent: errCur,
				StandardError2023:    err2023,
			})
			if err != nil {
				return result, err
			}
			result.UpsertedRows++
		}
	}
	return result, nil
}

// send 发送进度事件；通道已满时丢弃
func (l *Loader) send(ch chan<- ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
	}
}
