package etl

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

func TestResolveArea_Idempotent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := NewReconcileContext(st)

	first, err := ctx.ResolveArea("California", model.RegionTypeState)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := ctx.ResolveArea("California", model.RegionTypeState)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("want single id, got %v / %v", first, second)
	}
	if first[0] != second[0] {
		t.Fatalf("ids differ: %d vs %d", first[0], second[0])
	}

	count, err := st.CountRegions()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("region count want=1 got=%d", count)
	}
}

func TestResolveArea_MultiStateFanOut(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := NewReconcileContext(st)

	ids, err := ctx.ResolveArea("Chicago-Naperville, IL-IN-WI", model.RegionTypeRegion)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("want 3 ids, got %d", len(ids))
	}

	// 展开后的州可逐一命中同一缓存条目
	wantStates := []string{"Illinois", "Indiana", "Wisconsin"}
	for i, name := range wantStates {
		single, err := ctx.ResolveArea(name, model.RegionTypeState)
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		if single[0] != ids[i] {
			t.Fatalf("%s: want id %d got %d", name, ids[i], single[0])
		}
	}

	// 原始跨州标签本身不入库
	count, err := st.CountRegions()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("region count want=3 got=%d", count)
	}
}

func TestResolveArea_SpecialUrbanAreas(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := NewReconcileContext(st)

	ids, err := ctx.ResolveArea("Urban Alaska", model.RegionTypeRegion)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("want 1 id, got %d", len(ids))
	}

	r, err := st.GetRegionByName("Alaska")
	if err != nil {
		t.Fatalf("get region: %v", err)
	}
	if r == nil || r.ID != ids[0] {
		t.Fatalf("Urban Alaska should resolve to state Alaska")
	}
	if r.Type != model.RegionTypeState {
		t.Fatalf("region type want=state got=%s", r.Type)
	}
}

func TestResolveArea_DeclaredTypePreserved(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := NewReconcileContext(st)

	if _, err := ctx.ResolveArea("Northeast", model.RegionTypeRegion); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	r, err := st.GetRegionByName("Northeast")
	if err != nil {
		t.Fatalf("get region: %v", err)
	}
	if r == nil || r.Type != model.RegionTypeRegion {
		t.Fatalf("region type want=region got=%+v", r)
	}
}

func TestResolvePeriod_MonthlyAndYearly(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := NewReconcileContext(st)

	monthly, err := ctx.ResolvePeriod(2023, 3)
	if err != nil {
		t.Fatalf("resolve monthly: %v", err)
	}
	yearly, err := ctx.ResolvePeriod(2023, 0)
	if err != nil {
		t.Fatalf("resolve yearly: %v", err)
	}
	if monthly == yearly {
		t.Fatalf("monthly and yearly periods must differ")
	}

	again, err := ctx.ResolvePeriod(2023, 3)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again != monthly {
		t.Fatalf("period ids differ: %d vs %d", monthly, again)
	}
}
