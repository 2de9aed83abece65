package analysis

import (
	"math"
	"path/filepath"
	"testing"

	"econstat/internal/model"
	"econstat/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func mustRegion(t *testing.T, st *store.Store, name string, rt model.RegionType) int64 {
	t.Helper()
	id, err := st.UpsertRegion(name, rt)
	if err != nil {
		t.Fatalf("upsert region %s: %v", name, err)
	}
	return id
}

func mustPeriod(t *testing.T, st *store.Store, year, month int) int64 {
	t.Helper()
	id, err := st.UpsertPeriod(year, month)
	if err != nil {
		t.Fatalf("upsert period %d/%d: %v", year, month, err)
	}
	return id
}

func TestFoodPriceVolatility_CrossRegionDispersion(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	a := New(st)

	west := mustRegion(t, st, "California", model.RegionTypeState)
	east := mustRegion(t, st, "New York", model.RegionTypeState)
	jan := mustPeriod(t, st, 2023, 1)
	feb := mustPeriod(t, st, 2023, 2)

	if err := st.UpsertFoodCategory("708111", "Eggs"); err != nil {
		t.Fatalf("upsert category: %v", err)
	}
	if err := st.UpsertFoodCategory("701111", "Flour"); err != nil {
		t.Fatalf("upsert category: %v", err)
	}
	if err := st.UpsertFoodCategory("702111", "Bread"); err != nil {
		t.Fatalf("upsert category: %v", err)
	}

	prices := []model.FoodPrice{
		// 两个区域持续 1.0/3.0 的价差: 每月跨区域标准差 sqrt(2)
		{RegionID: west, ItemCode: "708111", PeriodID: jan, Price: 1.0},
		{RegionID: east, ItemCode: "708111", PeriodID: jan, Price: 3.0},
		{RegionID: west, ItemCode: "708111", PeriodID: feb, Price: 1.0},
		{RegionID: east, ItemCode: "708111", PeriodID: feb, Price: 3.0},
		// 区域间价格一致但逐月上涨: 跨区域离散度为 0
		{RegionID: west, ItemCode: "701111", PeriodID: jan, Price: 2.0},
		{RegionID: east, ItemCode: "701111", PeriodID: jan, Price: 2.0},
		{RegionID: west, ItemCode: "701111", PeriodID: feb, Price: 4.0},
		{RegionID: east, ItemCode: "701111", PeriodID: feb, Price: 4.0},
		// 单一区域，无离散度可计算
		{RegionID: west, ItemCode: "702111", PeriodID: jan, Price: 5.0},
	}
	for _, p := range prices {
		if err := st.UpsertFoodPrice(p); err != nil {
			t.Fatalf("upsert price: %v", err)
		}
	}

	result, err := a.FoodPriceVolatility(2023)
	if err != nil {
		t.Fatalf("volatility: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("want 2 items, got %d", len(result))
	}

	// 跨区域价差恒定的 Eggs 波动 sqrt(2)，排首位
	if result[0].ItemName != "Eggs" {
		t.Fatalf("top item want=Eggs got=%s", result[0].ItemName)
	}
	if math.Abs(result[0].Volatility-math.Sqrt2) > 1e-9 {
		t.Fatalf("eggs volatility want=%f got=%f", math.Sqrt2, result[0].Volatility)
	}
	if math.Abs(result[0].AvgPrice-2.0) > 1e-9 {
		t.Fatalf("eggs avg want=2.0 got=%f", result[0].AvgPrice)
	}
	if result[0].MonthsTracked != 2 {
		t.Fatalf("eggs months want=2 got=%d", result[0].MonthsTracked)
	}

	// 区域间无价差的 Flour 波动为 0，即使价格随时间变化
	if result[1].ItemName != "Flour" || result[1].Volatility != 0 {
		t.Fatalf("flour should have zero volatility, got %+v", result[1])
	}
	if math.Abs(result[1].AvgPrice-3.0) > 1e-9 {
		t.Fatalf("flour avg want=3.0 got=%f", result[1].AvgPrice)
	}
}

func TestIncomeSalesCorrelation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	a := New(st)

	period := mustPeriod(t, st, 2023, 0)
	states := []struct {
		name   string
		income float64
		sales  float64
	}{
		{"Alabama", 50000, 1000},
		{"Colorado", 60000, 2000},
		{"Maryland", 70000, 3000},
	}
	for _, s := range states {
		region := mustRegion(t, st, s.name, model.RegionTypeState)
		err := st.UpsertStateIncome(model.StateIncome{
			RegionID: region, PeriodID: period,
			MedianIncomeCurrent: s.income, MedianIncome2023: s.income,
		})
		if err != nil {
			t.Fatalf("upsert income: %v", err)
		}
		err = st.UpsertStateFoodSales(model.StateFoodSales{
			RegionID: region, PeriodID: period, TotalSalesMillion: s.sales,
		})
		if err != nil {
			t.Fatalf("upsert sales: %v", err)
		}
	}

	result, err := a.IncomeSalesCorrelation()
	if err != nil {
		t.Fatalf("correlation: %v", err)
	}
	if result.SampleSize != 3 {
		t.Fatalf("sample size want=3 got=%d", result.SampleSize)
	}
	// 完全线性关系
	if math.Abs(result.Correlation-1.0) > 1e-9 {
		t.Fatalf("correlation want=1.0 got=%f", result.Correlation)
	}
}

func TestStateIncomePercentile(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	a := New(st)

	period := mustPeriod(t, st, 2023, 0)
	incomes := map[string]float64{
		"Alabama":  50000,
		"Colorado": 60000,
		"Maryland": 70000,
	}
	for name, income := range incomes {
		region := mustRegion(t, st, name, model.RegionTypeState)
		err := st.UpsertStateIncome(model.StateIncome{
			RegionID: region, PeriodID: period,
			MedianIncomeCurrent: income, MedianIncome2023: income,
		})
		if err != nil {
			t.Fatalf("upsert income: %v", err)
		}
	}

	cases := map[string]struct {
		percentile float64
		rank       int
	}{
		"Alabama":  {0, 1},
		"Colorado": {50, 2},
		"Maryland": {100, 3},
	}
	for state, want := range cases {
		got, err := a.StateIncomePercentile(state)
		if err != nil {
			t.Fatalf("%s: %v", state, err)
		}
		if math.Abs(got.Percentile-want.percentile) > 1e-9 {
			t.Fatalf("%s percentile want=%f got=%f", state, want.percentile, got.Percentile)
		}
		if got.Rank != want.rank {
			t.Fatalf("%s rank want=%d got=%d", state, want.rank, got.Rank)
		}
		if got.TotalStates != 3 {
			t.Fatalf("%s total want=3 got=%d", state, got.TotalStates)
		}
	}

	if _, err := a.StateIncomePercentile("Nevada"); err == nil {
		t.Fatalf("expected error for missing state")
	}
}

func TestStateIncomePercentile_TiedIncomes(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	a := New(st)

	period := mustPeriod(t, st, 2023, 0)
	incomes := map[string]float64{
		"Alabama":  50000,
		"Colorado": 60000,
		"Maryland": 60000,
		"Virginia": 70000,
	}
	for name, income := range incomes {
		region := mustRegion(t, st, name, model.RegionTypeState)
		err := st.UpsertStateIncome(model.StateIncome{
			RegionID: region, PeriodID: period,
			MedianIncomeCurrent: income, MedianIncome2023: income,
		})
		if err != nil {
			t.Fatalf("upsert income: %v", err)
		}
	}

	// 收入相同的州分位必须相同，不随排序位置变化
	colorado, err := a.StateIncomePercentile("Colorado")
	if err != nil {
		t.Fatalf("Colorado: %v", err)
	}
	maryland, err := a.StateIncomePercentile("Maryland")
	if err != nil {
		t.Fatalf("Maryland: %v", err)
	}
	if colorado.Percentile != maryland.Percentile {
		t.Fatalf("tied states differ: %f vs %f", colorado.Percentile, maryland.Percentile)
	}
	want := 1.0 / 3.0 * 100
	if math.Abs(colorado.Percentile-want) > 1e-9 {
		t.Fatalf("tied percentile want=%f got=%f", want, colorado.Percentile)
	}
	if colorado.Rank != 2 || maryland.Rank != 2 {
		t.Fatalf("tied ranks want=2/2 got=%d/%d", colorado.Rank, maryland.Rank)
	}

	top, err := a.StateIncomePercentile("Virginia")
	if err != nil {
		t.Fatalf("Virginia: %v", err)
	}
	if top.Percentile != 100 {
		t.Fatalf("top percentile want=100 got=%f", top.Percentile)
	}
}
