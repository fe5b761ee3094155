package aggregate

import "sort"

// ConcurrencyStats summarizes how many intervals were open at once.
type ConcurrencyStats struct {
	Max         int
	Average     float64 // time-weighted mean count over TotalSpanMs
	TotalSpanMs int64
	ActiveMs    int64
	ZeroSpanMs  int64
}

// boundary is one edge of an interval on the sweep line.
type boundary struct {
	at     int64
	start  bool
	weight float64
}

// sortBoundaries orders edges by time. At equal times every start comes
// before every end, so an interval closing exactly when another opens
// counts as overlapping it for that instant.
func sortBoundaries(bs []boundary) {
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].at != bs[j].at {
			return bs[i].at < bs[j].at
		}
		return bs[i].start && !bs[j].start
	})
}

func countBoundaries(intervals []TimeInterval) []boundary {
	bs := make([]boundary, 0, 2*len(intervals))
	for _, iv := range intervals {
		if !iv.Valid() {
			continue
		}
		bs = append(bs,
			boundary{at: iv.Start, start: true, weight: 1},
			boundary{at: iv.End, weight: 1},
		)
	}
	sortBoundaries(bs)
	return bs
}

// SweepConcurrency computes overlap statistics for a set of intervals.
// When span is known and ends after the last edge, the trailing gap is
// added to the total at the post-sweep count.
func SweepConcurrency(intervals []TimeInterval, span Span) ConcurrencyStats {
	bs := countBoundaries(intervals)
	if len(bs) == 0 {
		return ConcurrencyStats{}
	}

	var (
		stats    ConcurrencyStats
		current  int
		weighted float64
	)
	accumulate := func(gap int64) {
		if gap <= 0 {
			return
		}
		weighted += float64(current) * float64(gap)
		stats.TotalSpanMs += gap
		if current > 0 {
			stats.ActiveMs += gap
		}
	}

	prev := bs[0].at
	for i := 0; i < len(bs); {
		at := bs[i].at
		accumulate(at - prev)
		for ; i < len(bs) && bs[i].at == at; i++ {
			if bs[i].start {
				current++
				if current > stats.Max {
					stats.Max = current
				}
				continue
			}
			if current > 0 {
				current--
			}
		}
		prev = at
	}
	if span.Known() {
		accumulate(span.End - prev)
	}

	if stats.TotalSpanMs > 0 {
		stats.Average = weighted / float64(stats.TotalSpanMs)
	}
	stats.ZeroSpanMs = stats.TotalSpanMs - stats.ActiveMs
	return stats
}

// RiskStats is the peak of summed capital at risk across open intervals.
type RiskStats struct {
	Peak   float64
	PeakAt int64
}

// SweepRisk runs the concurrency sweep adding each interval's value on open
// and removing it on close, tracking the running peak sum.
func SweepRisk(intervals []RiskInterval) RiskStats {
	bs := make([]boundary, 0, 2*len(intervals))
	for _, iv := range intervals {
		if !iv.Valid() || !finite(iv.Value) || iv.Value < 0 {
			continue
		}
		bs = append(bs,
			boundary{at: iv.Start, start: true, weight: iv.Value},
			boundary{at: iv.End, weight: iv.Value},
		)
	}
	sortBoundaries(bs)

	var (
		stats   RiskStats
		current float64
	)
	for _, b := range bs {
		if b.start {
			current += b.weight
			if current > stats.Peak {
				stats.Peak = current
				stats.PeakAt = b.at
			}
			continue
		}
		current -= b.weight
		if current < 0 {
			current = 0
		}
	}
	return stats
}
