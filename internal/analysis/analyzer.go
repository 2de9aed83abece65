package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"econstat/internal/store"
)

// Analyzer 统计分析层
// SQLite 不提供标准差/相关系数/分位函数，这类分析在内存中完成
type Analyzer struct {
	store *store.Store
}

// New 创建分析器
func New(st *store.Store) *Analyzer {
	return &Analyzer{store: st}
}

// VolatilityRow 品类价格波动
type VolatilityRow struct {
	ItemName      string  `json:"itemName"`
	AvgPrice      float64 `json:"avgPrice"`
	Volatility    float64 `json:"volatility"`
	MonthsTracked int     `json:"monthsTracked"`
}

// FoodPriceVolatility 计算指定年份各品类的价格波动（跨区域离散度）
// 先按品类+月份对各区域价格取样本标准差，再对逐月标准差取平均，
// 取波动最大的前 10 个品类
func (a *Analyzer) FoodPriceVolatility(year int) ([]VolatilityRow, error) {
	rows, err := a.store.QueryMonthlyPricesForYear(year)
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		item  string
		month int
	}
	samples := make(map[monthKey][]float64)
	var order []string
	seen := make(map[string]bool)

	for _, row := range rows {
		k := monthKey{item: row.ItemName, month: row.Month}
		samples[k] = append(samples[k], row.Price)
		if !seen[row.ItemName] {
			seen[row.ItemName] = true
			order = append(order, row.ItemName)
		}
	}

	var result []VolatilityRow
	for _, item := range order {
		var stddevs, means []float64
		for month := 1; month <= 12; month++ {
			prices := samples[monthKey{item: item, month: month}]
			// 单一区域观测无离散度可言，该月不计入
			if len(prices) < 2 {
				continue
			}
			stddevs = append(stddevs, stat.StdDev(prices, nil))
			means = append(means, stat.Mean(prices, nil))
		}
		if len(stddevs) == 0 {
			continue
		}
		result = append(result, VolatilityRow{
			ItemName:      item,
			AvgPrice:      stat.Mean(means, nil),
			Volatility:    stat.Mean(stddevs, nil),
			MonthsTracked: len(stddevs),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Volatility > result[j].Volatility
	})
	if len(result) > 10 {
		result = result[:10]
	}
	return result, nil
}

// CorrelationResult 州收入与食品销售额的相关性
type CorrelationResult struct {
	Correlation float64                `json:"correlation"`
	SampleSize  int                    `json:"sampleSize"`
	States      []store.IncomeSalesRow `json:"states"`
}

// IncomeSalesCorrelation 计算最新年份各州中位数收入与食品销售额的皮尔逊相关系数
func (a *Analyzer) IncomeSalesCorrelation() (*CorrelationResult, error) {
	rows, err := a.store.QueryIncomeSalesByState()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("not enough states for correlation: %d", len(rows))
	}

	incomes := make([]float64, len(rows))
	sales := make([]float64, len(rows))
	for i, row := range rows {
		incomes[i] = row.MedianIncome2023
		sales[i] = row.TotalSalesMillion
	}

	return &CorrelationResult{
		Correlation: stat.Correlation(incomes, sales, nil),
		SampleSize:  len(rows),
		States:      rows,
	}, nil
}

// PercentileResult 州收入分位
type PercentileResult struct {
	State            string  `json:"state"`
	MedianIncome2023 float64 `json:"medianIncome2023"`
	Percentile       float64 `json:"percentile"`
	Rank             int     `json:"rank"`
	TotalStates      int     `json:"totalStates"`
}

// StateIncomePercentile 计算指定州在最新年份收入分布中的分位
// 分位按 (严格低于该州的州数)/(n-1)*100 计，收入相同的州分位相同
func (a *Analyzer) StateIncomePercentile(state string) (*PercentileResult, error) {
	rows, err := a.store.QueryStateMediansLatestYear()
	if err != nil {
		return nil, err
	}

	var target *store.StateMedianRow
	for i := range rows {
		if rows[i].State == state {
			target = &rows[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("state not found: %s", state)
	}

	below := 0
	for _, row := range rows {
		if row.MedianIncome2023 < target.MedianIncome2023 {
			below++
		}
	}

	percentile := 0.0
	if len(rows) > 1 {
		percentile = float64(below) / float64(len(rows)-1) * 100
	}
	return &PercentileResult{
		State:            target.State,
		MedianIncome2023: target.MedianIncome2023,
		Percentile:       percentile,
		Rank:             below + 1,
		TotalStates:      len(rows),
	}, nil
}
