package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"econstat/internal/model"
	"econstat/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "econstat.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, t.TempDir())
	r := gin.New()
	apiGroup := r.Group("/api")
	h.RegisterRoutes(apiGroup)
	return r, st
}

func seedStates(t *testing.T, st *store.Store) {
	t.Helper()

	periodID, err := st.UpsertPeriod(2023, 0)
	if err != nil {
		t.Fatalf("upsert period: %v", err)
	}

	states := []struct {
		name   string
		income float64
		sales  float64
	}{
		{"Alabama", 50000, 9000},
		{"Colorado", 60000, 12000},
		{"Maryland", 70000, 15000},
	}
	for _, s := range states {
		regionID, err := st.UpsertRegion(s.name, model.RegionTypeState)
		if err != nil {
			t.Fatalf("upsert region: %v", err)
		}
		err = st.UpsertStateIncome(model.StateIncome{
			RegionID: regionID, PeriodID: periodID,
			MedianIncomeCurrent: s.income, MedianIncome2023: s.income,
		})
		if err != nil {
			t.Fatalf("upsert income: %v", err)
		}
		err = st.UpsertStateFoodSales(model.StateFoodSales{
			RegionID: regionID, PeriodID: periodID, TotalSalesMillion: s.sales,
		})
		if err != nil {
			t.Fatalf("upsert sales: %v", err)
		}
	}
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetStatus_Empty(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doGet(t, r, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Initialized {
		t.Fatalf("empty store should not be initialized")
	}
}

func TestListRegions_TypeFilter(t *testing.T) {
	r, st := newTestRouter(t)
	seedStates(t, st)
	if _, err := st.UpsertRegion("Northeast", model.RegionTypeRegion); err != nil {
		t.Fatalf("upsert region: %v", err)
	}

	w := doGet(t, r, "/api/regions?type=state")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Regions []model.Region `json:"regions"`
		Total   int            `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("state count want=3 got=%d", resp.Total)
	}

	w = doGet(t, r, "/api/regions?type=county")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid type should be 400, got %d", w.Code)
	}
}

func TestSalesRankings_DefaultYear(t *testing.T) {
	r, st := newTestRouter(t)
	seedStates(t, st)

	w := doGet(t, r, "/api/analysis/sales-rankings")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Year  int                     `json:"year"`
		Rows  []store.SalesRankingRow `json:"rows"`
		Total int                     `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Year != 2023 {
		t.Fatalf("default year want=2023 got=%d", resp.Year)
	}
	if resp.Total != 3 || resp.Rows[0].State != "Maryland" {
		t.Fatalf("unexpected rankings: %+v", resp.Rows)
	}
}

func TestIncomePercentile(t *testing.T) {
	r, st := newTestRouter(t)
	seedStates(t, st)

	w := doGet(t, r, "/api/analysis/income-percentile?state=Colorado")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Percentile float64 `json:"percentile"`
		Rank       int     `json:"rank"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Percentile != 50 || resp.Rank != 2 {
		t.Fatalf("percentile want=50/rank 2 got=%+v", resp)
	}

	w = doGet(t, r, "/api/analysis/income-percentile")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing state should be 400, got %d", w.Code)
	}
	w = doGet(t, r, "/api/analysis/income-percentile?state=Nevada")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown state should be 404, got %d", w.Code)
	}
}

func TestIncomeSalesCorrelation(t *testing.T) {
	r, st := newTestRouter(t)
	seedStates(t, st)

	w := doGet(t, r, "/api/analysis/income-sales-correlation")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Correlation float64 `json:"correlation"`
		SampleSize  int     `json:"sampleSize"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SampleSize != 3 || resp.Correlation < 0.99 {
		t.Fatalf("unexpected correlation result: %+v", resp)
	}
}

func TestMonthlyPrices_InvalidMonth(t *testing.T) {
	r, st := newTestRouter(t)
	seedStates(t, st)

	w := doGet(t, r, "/api/analysis/monthly-prices?year=2023&month=13")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid month should be 400, got %d", w.Code)
	}
}

func TestExport_DownloadRoundTrip(t *testing.T) {
	r, st := newTestRouter(t)
	seedStates(t, st)

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status: %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		DownloadURL string `json:"downloadUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.DownloadURL == "" {
		t.Fatalf("missing download url")
	}

	w = doGet(t, r, resp.DownloadURL)
	if w.Code != http.StatusOK {
		t.Fatalf("download status: %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("empty download body")
	}

	// 一次性下载，再次请求应失效
	w = doGet(t, r, resp.DownloadURL)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second download should be 404, got %d", w.Code)
	}
}
