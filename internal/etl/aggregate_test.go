package etl

import (
	"math"
	"testing"
)

func TestAccumulator_Mean(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	key := ObsKey{RegionID: 1, PeriodID: 1, ItemCode: "701111"}
	acc.Add(key, 10)
	acc.Add(key, 20)
	acc.Add(key, 30)

	aggs := acc.Reduce()
	if len(aggs) != 1 {
		t.Fatalf("want 1 aggregate, got %d", len(aggs))
	}
	if math.Abs(aggs[0].Mean-20) > 1e-9 {
		t.Fatalf("mean want=20 got=%f", aggs[0].Mean)
	}
	if aggs[0].Count != 3 {
		t.Fatalf("count want=3 got=%d", aggs[0].Count)
	}
}

func TestAccumulator_InsertionOrder(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	keys := []ObsKey{
		{RegionID: 3, PeriodID: 1, ItemCode: "c"},
		{RegionID: 1, PeriodID: 2, ItemCode: "a"},
		{RegionID: 2, PeriodID: 3, ItemCode: "b"},
	}
	for _, k := range keys {
		acc.Add(k, 1)
	}
	// 追加已有键不改变顺序
	acc.Add(keys[1], 2)

	aggs := acc.Reduce()
	if len(aggs) != 3 {
		t.Fatalf("want 3 aggregates, got %d", len(aggs))
	}
	for i, k := range keys {
		if aggs[i].Key != k {
			t.Fatalf("position %d: want=%v got=%v", i, k, aggs[i].Key)
		}
	}
}

func TestAccumulator_BasePeriodMajority(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	key := ObsKey{RegionID: 1, PeriodID: 1, ItemCode: "SA0"}
	acc.AddIndexed(key, 100, "1982-84", 100)
	acc.AddIndexed(key, 101, "1982-84", 100)
	acc.AddIndexed(key, 102, "1982-84", 100)
	acc.AddIndexed(key, 103, "1967", 100)

	aggs := acc.Reduce()
	if len(aggs) != 1 {
		t.Fatalf("want 1 aggregate, got %d", len(aggs))
	}
	if aggs[0].BasePeriod != "1982-84" {
		t.Fatalf("base period want=1982-84 got=%s", aggs[0].BasePeriod)
	}
}

func TestAccumulator_BasePeriodTieFirstSeen(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	key := ObsKey{RegionID: 1, PeriodID: 1, ItemCode: "SA0"}
	acc.AddIndexed(key, 100, "1967", 100)
	acc.AddIndexed(key, 101, "1982-84", 100)
	acc.AddIndexed(key, 102, "1982-84", 100)
	acc.AddIndexed(key, 103, "1967", 100)

	aggs := acc.Reduce()
	if aggs[0].BasePeriod != "1967" {
		t.Fatalf("tie should keep first seen base period, got %s", aggs[0].BasePeriod)
	}
}

func TestAccumulator_SampleCount(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator()
	key := ObsKey{RegionID: 7, PeriodID: 9, ItemCode: "x"}
	if got := acc.SampleCount(key); got != 0 {
		t.Fatalf("empty accumulator sample count want=0 got=%d", got)
	}
	acc.Add(key, 1)
	acc.Add(key, 2)
	if got := acc.SampleCount(key); got != 2 {
		t.Fatalf("sample count want=2 got=%d", got)
	}
	if acc.Len() != 1 {
		t.Fatalf("len want=1 got=%d", acc.Len())
	}
}
