package aggregate

import (
	"math"
	"sort"
)

// DailyConcurrencyRecord is the concurrency observed inside one UTC day bucket.
type DailyConcurrencyRecord struct {
	DayIndex         int64
	ActiveDurationMs int64
	MaxCount         int
	AvgActiveCount   float64 // time-weighted mean count while active
}

// Limits are ceiling-rounded percentiles of the daily maxima, usable as
// candidate caps on simultaneous positions.
type Limits struct {
	P75 int
	P90 int
	P95 int
}

// DailyStats are order statistics over the per-day maximum counts.
type DailyStats struct {
	Days    int
	MeanMax float64
	P75     float64
	P90     float64
	P95     float64
	Limits  Limits
}

// DailyConcurrency is the output of BucketDaily.
type DailyConcurrency struct {
	Records []DailyConcurrencyRecord
	Stats   DailyStats
}

type dayBucket struct {
	active   int64
	weighted float64
	max      int
}

// BucketDaily runs the concurrency sweep with every gap clipped to UTC day
// boundaries. Days with no active time are omitted.
func BucketDaily(intervals []TimeInterval) DailyConcurrency {
	bs := countBoundaries(intervals)
	if len(bs) == 0 {
		return DailyConcurrency{}
	}

	buckets := map[int64]*dayBucket{}
	bucket := func(day int64) *dayBucket {
		b, ok := buckets[day]
		if !ok {
			b = &dayBucket{}
			buckets[day] = b
		}
		return b
	}

	current := 0
	spread := func(from, to int64) {
		if current == 0 {
			return
		}
		for from < to {
			day := DayIndex(from)
			end := (day + 1) * DayMs
			if end > to {
				end = to
			}
			b := bucket(day)
			b.active += end - from
			b.weighted += float64(current) * float64(end-from)
			if current > b.max {
				b.max = current
			}
			from = end
		}
	}

	prev := bs[0].at
	for i := 0; i < len(bs); {
		at := bs[i].at
		spread(prev, at)
		for ; i < len(bs) && bs[i].at == at; i++ {
			if bs[i].start {
				current++
				if b := bucket(DayIndex(at)); current > b.max {
					b.max = current
				}
				continue
			}
			if current > 0 {
				current--
			}
		}
		prev = at
	}

	records := make([]DailyConcurrencyRecord, 0, len(buckets))
	for day, b := range buckets {
		if b.active <= 0 {
			continue
		}
		records = append(records, DailyConcurrencyRecord{
			DayIndex:         day,
			ActiveDurationMs: b.active,
			MaxCount:         b.max,
			AvgActiveCount:   b.weighted / float64(b.active),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].DayIndex < records[j].DayIndex
	})

	return DailyConcurrency{Records: records, Stats: DailyStatsFrom(records)}
}

// DailyStatsFrom computes the mean and percentiles of the day maxima.
func DailyStatsFrom(records []DailyConcurrencyRecord) DailyStats {
	if len(records) == 0 {
		return DailyStats{}
	}

	maxima := make([]float64, len(records))
	var sum float64
	for i, r := range records {
		maxima[i] = float64(r.MaxCount)
		sum += maxima[i]
	}
	sort.Float64s(maxima)

	st := DailyStats{
		Days:    len(maxima),
		MeanMax: sum / float64(len(maxima)),
		P75:     percentileSorted(maxima, 0.75),
		P90:     percentileSorted(maxima, 0.90),
		P95:     percentileSorted(maxima, 0.95),
	}
	st.Limits = Limits{
		P75: int(math.Ceil(st.P75)),
		P90: int(math.Ceil(st.P90)),
		P95: int(math.Ceil(st.P95)),
	}
	return st
}

// Percentile interpolates linearly between the order statistics of values
// at rank (n-1)*p. p is clamped to [0, 1]; empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	switch {
	case math.IsNaN(p) || p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}

	index := float64(n-1) * p
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}
