package exporter

import (
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

func TestExport_SheetLayout(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)

	regionID, err := st.UpsertRegion("Northeast", model.RegionTypeRegion)
	if err != nil {
		t.Fatalf("upsert region: %v", err)
	}
	periodID, err := st.UpsertPeriod(2023, 0)
	if err != nil {
		t.Fatalf("upsert period: %v", err)
	}
	err = st.UpsertRegionalIncome(model.RegionalIncome{
		RegionID: regionID, PeriodID: periodID,
		HouseholdsThousands: 21000,
		MedianIncomeCurrent: 80000, MedianIncome2023: 80000,
		MeanIncomeCurrent: 95000, MeanIncome2023: 95000,
	})
	if err != nil {
		t.Fatalf("upsert income: %v", err)
	}

	var stages []string
	f, err := NewExporter(st).Export(ExportOptions{
		Progress: func(p ProgressEvent) { stages = append(stages, p.Stage) },
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	wantSheets := []string{"收入差距", "销售排名", "价格区间", "收入分布", "价格波动"}
	got := f.GetSheetList()
	if len(got) != len(wantSheets) {
		t.Fatalf("sheet count want=%d got=%d (%v)", len(wantSheets), len(got), got)
	}
	for i, name := range wantSheets {
		if got[i] != name {
			t.Fatalf("sheet %d want=%s got=%s", i, name, got[i])
		}
	}

	cell, err := f.GetCellValue("收入差距", "A2")
	if err != nil {
		t.Fatalf("get cell: %v", err)
	}
	if cell != "Northeast" {
		t.Fatalf("A2 want=Northeast got=%q", cell)
	}

	if len(stages) == 0 || stages[len(stages)-1] != "完成" {
		t.Fatalf("progress stages unexpected: %v", stages)
	}
}
