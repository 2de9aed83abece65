package etl

import "gonum.org/v1/gonum/stat"

// ObsKey 观测值聚合键
type ObsKey struct {
	RegionID int64
	PeriodID int64
	ItemCode string
}

type basePair struct {
	period string
	value  float64
}

type obsEntry struct {
	values    []float64
	basePairs []basePair
}

// Accumulator 观测值聚合器
// 同一 (region, period, item) 键可能收到多条原始观测（跨州标签展开后同州多城市），
// 收集后归约为单一代表值；键按插入顺序记录，保证归约顺序确定
type Accumulator struct {
	entries map[ObsKey]*obsEntry
	order   []ObsKey
}

// NewAccumulator 创建聚合器
func NewAccumulator() *Accumulator {
	return &Accumulator{
		entries: make(map[ObsKey]*obsEntry),
	}
}

// Add 收集一条观测值
func (a *Accumulator) Add(key ObsKey, value float64) {
	a.entry(key).values = append(a.entry(key).values, value)
}

// AddIndexed 收集一条带基期信息的指数观测值
func (a *Accumulator) AddIndexed(key ObsKey, value float64, basePeriod string, baseValue float64) {
	e := a.entry(key)
	e.values = append(e.values, value)
	e.basePairs = append(e.basePairs, basePair{period: basePeriod, value: baseValue})
}

func (a *Accumulator) entry(key ObsKey) *obsEntry {
	e, ok := a.entries[key]
	if !ok {
		e = &obsEntry{}
		a.entries[key] = e
		a.order = append(a.order, key)
	}
	return e
}

// Len 已收集的键数量
func (a *Accumulator) Len() int {
	return len(a.order)
}

// SampleCount 指定键收集到的观测条数
func (a *Accumulator) SampleCount(key ObsKey) int {
	if e, ok := a.entries[key]; ok {
		return len(e.values)
	}
	return 0
}

// Aggregate 单键归约结果
type Aggregate struct {
	Key        ObsKey
	Mean       float64
	Count      int
	BasePeriod string
	BaseValue  float64
}

// Reduce 按插入顺序归约所有键：取算术平均值；
// 基期信息取出现次数最多的组合，出现次数相同时先出现者优先
func (a *Accumulator) Reduce() []Aggregate {
	result := make([]Aggregate, 0, len(a.order))
	for _, key := range a.order {
		e := a.entries[key]
		if len(e.values) == 0 {
			continue
		}
		agg := Aggregate{
			Key:   key,
			Mean:  stat.Mean(e.values, nil),
			Count: len(e.values),
		}
		if len(e.basePairs) > 0 {
			agg.BasePeriod, agg.BaseValue = mostFrequentBase(e.basePairs)
		}
		result = append(result, agg)
	}
	return result
}

// mostFrequentBase 统计出现次数最多的基期组合；同频时保留先出现者
func mostFrequentBase(pairs []basePair) (string, float64) {
	counts := make(map[basePair]int)
	var order []basePair
	for _, p := range pairs {
		if _, ok := counts[p]; !ok {
			order = append(order, p)
		}
		counts[p]++
	}

	best := order[0]
	for _, p := range order[1:] {
		if counts[p] > counts[best] {
			best = p
		}
	}
	return best.period, best.value
}
